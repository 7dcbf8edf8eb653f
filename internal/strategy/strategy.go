package strategy

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/lox/crapsdice/internal/stratlang"
)

//go:embed builtin
var builtinFiles embed.FS

// BuiltinPrefix selects a built-in strategy in Load.
const BuiltinPrefix = "builtin:"

// ErrUnknownStrategy is returned for a built-in name that does not exist.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is a named, compiled program.
type Strategy struct {
	Name    string
	Source  string
	Program *stratlang.Program
}

// Compile builds a strategy from source.
func Compile(name, src string, opts stratlang.Options) (*Strategy, error) {
	p, err := stratlang.Compile(src, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Strategy{Name: name, Source: src, Program: p}, nil
}

// BuiltinNames lists the strategies shipped with the binary.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFiles, "builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".cdc"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Builtin compiles a strategy shipped with the binary.
func Builtin(name string, opts stratlang.Options) (*Strategy, error) {
	data, err := builtinFiles.ReadFile(path.Join("builtin", name+".cdc"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
	return Compile(name, string(data), opts)
}

// Load compiles a strategy from a file, or a built-in when location starts
// with "builtin:".
func Load(location string, opts stratlang.Options) (*Strategy, error) {
	if name, ok := strings.CutPrefix(location, BuiltinPrefix); ok {
		return Builtin(name, opts)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategy: %w", err)
	}
	return Compile(location, string(data), opts)
}
