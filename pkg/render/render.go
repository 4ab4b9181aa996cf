// Package render prints parsed documents for people and other tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/kvpairs"
	"gopkg.in/yaml.v3"
)

type Encoder func(w io.Writer, p kvpairs.Pairs) error

var encoders = map[string]Encoder{
	"text":  kvpairs.Format,
	"json":  encodeJSON,
	"yaml":  encodeYAML,
	"debug": encodeDebug,
}

// Names returns the available encoders
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Get(name string) (Encoder, error) {
	enc, ok := encoders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output %q, expected one of: %s", name, strings.Join(Names(), ", "))
	}
	return enc, nil
}

func Render(w io.Writer, name string, p kvpairs.Pairs) error {
	enc, err := Get(name)
	if err != nil {
		return err
	}
	return enc(w, p)
}

// encoding/json sorts map keys
func encodeJSON(w io.Writer, p kvpairs.Pairs) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nonNil(p))
}

func encodeYAML(w io.Writer, p kvpairs.Pairs) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(p)); err != nil {
		return err
	}
	return enc.Close()
}

// Same shape as a pretty printed map: every value on its own line
func encodeDebug(w io.Writer, p kvpairs.Pairs) error {
	var b strings.Builder
	b.WriteString("{\n")
	for _, key := range p.Keys() {
		values := p[key]
		if len(values) == 0 {
			fmt.Fprintf(&b, "    %q: [],\n", key)
			continue
		}
		fmt.Fprintf(&b, "    %q: [\n", key)
		for _, v := range values {
			fmt.Fprintf(&b, "        %d,\n", v)
		}
		b.WriteString("    ],\n")
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nonNil(p kvpairs.Pairs) kvpairs.Pairs {
	if p == nil {
		return kvpairs.Pairs{}
	}
	return p
}
