// Package cpp runs the C preprocessor to discover the macros a header defines
// and the files it transitively includes
package cpp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/turbot/steampipe-postgres-sys/utils"
)

const DefaultCC = "cc"

// Preprocessor invokes a C compiler driver in preprocessor mode
type Preprocessor struct {
	// CC is the compiler command; it may carry leading arguments, e.g. "ccache cc"
	CC  string
	Run utils.CommandRunner
}

func New(cc string) *Preprocessor {
	if strings.TrimSpace(cc) == "" {
		cc = DefaultCC
	}
	return &Preprocessor{CC: cc, Run: utils.RunCommand}
}

// Macros returns the sorted names of every macro defined once header has been preprocessed
func (p *Preprocessor) Macros(ctx context.Context, header string, includeDirs []string) ([]string, error) {
	output, err := p.run(ctx, header, includeDirs, "-E", "-dM")
	if err != nil {
		return nil, fmt.Errorf("failed to list macros of %s: %w", header, err)
	}
	res, err := ParseMacros(output)
	if err != nil {
		return nil, fmt.Errorf("failed to list macros of %s: %w", header, err)
	}
	log.Printf("[TRACE] Preprocessor.Macros %s defines %d macros", header, len(res))
	return res, nil
}

// Dependencies returns every file header transitively includes, in the order the preprocessor reports them.
// header itself is not part of the result
func (p *Preprocessor) Dependencies(ctx context.Context, header string, includeDirs []string) ([]string, error) {
	output, err := p.run(ctx, header, includeDirs, "-M")
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies of %s: %w", header, err)
	}
	deps, err := ParseDepfile(bytes.NewReader(output))
	if err != nil {
		return nil, err
	}
	res := slices.DeleteFunc(deps, func(d string) bool { return d == header })
	log.Printf("[TRACE] Preprocessor.Dependencies %s includes %d files", header, len(res))
	return res, nil
}

func (p *Preprocessor) run(ctx context.Context, header string, includeDirs []string, mode ...string) ([]byte, error) {
	command := strings.Fields(p.CC)
	if len(command) == 0 {
		command = []string{DefaultCC}
	}
	args := append(command[1:], "-x", "c")
	args = append(args, mode...)
	args = append(args, IncludeArgs(includeDirs)...)
	args = append(args, header)
	return p.Run(ctx, command[0], args...)
}

// IncludeArgs returns the -I search path flags for dirs
func IncludeArgs(dirs []string) []string {
	res := make([]string, 0, len(dirs))
	for _, d := range dirs {
		res = append(res, "-I"+d)
	}
	return res
}

// ParseMacros extracts the macro names from "#define NAME ..." lines
func ParseMacros(output []byte) ([]string, error) {
	names := map[string]struct{}{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, "#define ")
		if !ok {
			continue
		}
		name := strings.TrimSpace(rest)
		if i := strings.IndexAny(name, " \t("); i >= 0 {
			name = name[:i]
		}
		if name != "" {
			names[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read macro definitions: %w", err)
	}

	res := make([]string, 0, len(names))
	for n := range names {
		res = append(res, n)
	}
	slices.Sort(res)
	return res, nil
}
