package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// itemSchema guards create and update: a title with at least one
// non-blank character is the only requirement.
const itemSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"id": {"type": "string"},
		"title": {"type": "string", "minLength": 1, "pattern": "\\S"},
		"done": {"type": "boolean"}
	},
	"required": ["title"]
}`

// draftSchema guards evaluate, which accepts an empty title.
const draftSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"id": {"type": "string"},
		"title": {"type": "string"},
		"done": {"type": "boolean"}
	},
	"required": ["title"]
}`

type validator struct {
	item  *jsonschema.Schema
	draft *jsonschema.Schema
}

func newValidator() (*validator, error) {
	item, err := compileSchema("item.schema.json", itemSchema)
	if err != nil {
		return nil, err
	}
	draft, err := compileSchema("draft.schema.json", draftSchema)
	if err != nil {
		return nil, err
	}
	return &validator{item: item, draft: draft}, nil
}

func compileSchema(url, src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return schema, nil
}

// decode validates body against schema and unmarshals it into dst.
func decode(schema *jsonschema.Schema, body []byte, dst any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// schemaError flattens a validation error into one line per failing leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var msgs []string
	collect(ve, &msgs)
	if len(msgs) == 0 {
		return errors.New(ve.Message)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func collect(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "/")
		if loc == "" {
			*msgs = append(*msgs, ve.Message)
			return
		}
		*msgs = append(*msgs, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collect(c, msgs)
	}
}
