// Package bundle models the front-end build profile: the bundler options
// the Svelte shell is built with, the dev-server headers, and import
// aliases. Larder never bundles anything itself; the profile is validated
// configuration that `larder profile` prints and `larder serve` applies.
package bundle

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrInvalidProfile wraps every Validate failure.
var ErrInvalidProfile = errors.New("invalid build profile")

// Profile is the build configuration of the front-end shell.
type Profile struct {
	Target            string              `json:"target" yaml:"target" mapstructure:"target"`
	Minify            Minify              `json:"minify" yaml:"minify" mapstructure:"minify"`
	ManualChunks      map[string][]string `json:"manual_chunks" yaml:"manual_chunks" mapstructure:"manual_chunks"`
	AssetsInlineLimit int                 `json:"assets_inline_limit" yaml:"assets_inline_limit" mapstructure:"assets_inline_limit"`
	CSSCodeSplit      bool                `json:"css_code_split" yaml:"css_code_split" mapstructure:"css_code_split"`
	OptimizeDeps      OptimizeDeps        `json:"optimize_deps" yaml:"optimize_deps" mapstructure:"optimize_deps"`
	DevServer         DevServer           `json:"dev_server" yaml:"dev_server" mapstructure:"dev_server"`
	Aliases           map[string]string   `json:"aliases" yaml:"aliases" mapstructure:"aliases"`
}

// Minify configures the minifier.
type Minify struct {
	Tool        string `json:"tool" yaml:"tool" mapstructure:"tool"`
	DropConsole bool   `json:"drop_console" yaml:"drop_console" mapstructure:"drop_console"`
	Passes      int    `json:"passes" yaml:"passes" mapstructure:"passes"`
}

// OptimizeDeps lists dependencies pre-bundled for the dev server.
type OptimizeDeps struct {
	Include []string `json:"include" yaml:"include" mapstructure:"include"`
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`
}

// DevServer holds headers sent by the development server.
type DevServer struct {
	Headers map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
}

// Default returns the profile the front-end ships with.
func Default() Profile {
	return Profile{
		Target: "es2015",
		Minify: Minify{
			Tool:        "terser",
			DropConsole: true,
			Passes:      2,
		},
		ManualChunks: map[string][]string{
			"three-core": {"three"},
			"app":        {"./src/App.svelte"},
		},
		AssetsInlineLimit: 4096,
		CSSCodeSplit:      true,
		OptimizeDeps: OptimizeDeps{
			Include: []string{"three"},
			Exclude: []string{},
		},
		DevServer: DevServer{
			Headers: map[string]string{
				"Cache-Control": "max-age=0, must-revalidate",
			},
		},
		Aliases: map[string]string{
			"@": "/src",
		},
	}
}

// Validate checks the profile: a target, at least one minify pass, a
// non-negative inline limit, named chunks whose modules appear only once,
// and non-empty alias keys.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("%w: target must not be empty", ErrInvalidProfile)
	}
	if p.Minify.Passes < 1 {
		return fmt.Errorf("%w: minify passes must be at least 1, got %d", ErrInvalidProfile, p.Minify.Passes)
	}
	if p.AssetsInlineLimit < 0 {
		return fmt.Errorf("%w: assets inline limit must not be negative, got %d", ErrInvalidProfile, p.AssetsInlineLimit)
	}
	owner := make(map[string]string)
	for _, chunk := range p.chunkNames() {
		if strings.TrimSpace(chunk) == "" {
			return fmt.Errorf("%w: chunk name must not be empty", ErrInvalidProfile)
		}
		for _, mod := range p.ManualChunks[chunk] {
			if prev, ok := owner[mod]; ok {
				return fmt.Errorf("%w: module %q is in chunks %q and %q", ErrInvalidProfile, mod, prev, chunk)
			}
			owner[mod] = chunk
		}
	}
	for alias := range p.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%w: alias must not be empty", ErrInvalidProfile)
		}
	}
	return nil
}

// ChunkFor returns the manual chunk a module is split into, or "" when it
// stays in the default chunk.
func (p Profile) ChunkFor(module string) string {
	for _, chunk := range p.chunkNames() {
		for _, mod := range p.ManualChunks[chunk] {
			if mod == module {
				return chunk
			}
		}
	}
	return ""
}

// ShouldInline reports whether an asset of size bytes is inlined. Assets at
// exactly the limit are inlined.
func (p Profile) ShouldInline(size int) bool {
	return size <= p.AssetsInlineLimit
}

// ResolveAlias rewrites an import path whose first segment is an alias. The
// longest matching alias wins; "@/lib/x" resolves through "@" but "@scope/x"
// does not. ok is false when no alias applies.
func (p Profile) ResolveAlias(path string) (resolved string, ok bool) {
	best := ""
	for alias := range p.Aliases {
		if alias == "" || len(alias) <= len(best) {
			continue
		}
		if path == alias || strings.HasPrefix(path, alias+"/") {
			best = alias
		}
	}
	if best == "" {
		return path, false
	}
	target := strings.TrimSuffix(p.Aliases[best], "/")
	return target + strings.TrimPrefix(path, best), true
}

// ApplyDevHeaders sets the dev-server headers on h.
func (p Profile) ApplyDevHeaders(h http.Header) {
	for k, v := range p.DevServer.Headers {
		h.Set(k, v)
	}
}

func (p Profile) chunkNames() []string {
	names := make([]string, 0, len(p.ManualChunks))
	for name := range p.ManualChunks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
