// Package casefile loads restcase options from YAML documents,
// so the request data of a test case can live next to the fixtures instead of the test code.
//
//	cases:
//	  stuff:
//	    base_name: stuff
//	    pagination_results_field: results
//	    create_data:
//	      name: foo
//	    update_data:
//	      name: other things
//	  relatedstuff:
//	    base_name: relatedstuff
//	    schema:
//	      thing: relation
package casefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"go.llib.dev/frameless/pkg/errorkit"
	"gopkg.in/yaml.v3"

	"go.llib.dev/restassured/pkg/verify"
	"go.llib.dev/restassured/port/restcase"
)

const ErrCaseNotFound errorkit.Error = "case not found"

type File struct {
	Cases map[string]Case `yaml:"cases"`
}

type Case struct {
	BaseName               string         `yaml:"base_name"`
	ListSuffix             string         `yaml:"list_suffix,omitempty"`
	DetailSuffix           string         `yaml:"detail_suffix,omitempty"`
	PaginationResultsField string         `yaml:"pagination_results_field,omitempty"`
	AttributesToCheck      []string       `yaml:"attributes_to_check,omitempty"`
	CreateName             string         `yaml:"create_name,omitempty"`
	CreateData             map[string]any `yaml:"create_data,omitempty"`
	ResponseLookupField    string         `yaml:"response_lookup_field,omitempty"`
	UpdateName             string         `yaml:"update_name,omitempty"`
	UpdateData             map[string]any `yaml:"update_data,omitempty"`
	UpdateResults          map[string]any `yaml:"update_results,omitempty"`
	UsePatch               *bool          `yaml:"use_patch,omitempty"`
	DestroyName            string         `yaml:"destroy_name,omitempty"`
	StateAttribute         string         `yaml:"state_attribute,omitempty"`
	// Schema maps the relation fields to their kind: relation or relations.
	Schema map[string]string `yaml:"schema,omitempty"`
}

// Decode parses a YAML case file. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse case file: %w", err)
	}
	return f, nil
}

// Load reads and parses a YAML case file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read case file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

func (f File) Lookup(name string) (Case, error) {
	c, ok := f.Cases[name]
	if !ok {
		return Case{}, ErrCaseNotFound.F("%s", name)
	}
	if c.BaseName == "" {
		c.BaseName = name
	}
	return c, nil
}

// Names lists the cases of the file in alphabetical order.
func (f File) Names() []string {
	names := make([]string, 0, len(f.Cases))
	for name := range f.Cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VerifySchema converts the schema of the case.
// It returns nil when the case has no schema, so the schema gets inferred from the entity.
func (c Case) VerifySchema() (verify.Schema, error) {
	if len(c.Schema) == 0 {
		return nil, nil
	}
	schema := make(verify.Schema, len(c.Schema))
	for field, kind := range c.Schema {
		k, err := verify.ParseFieldKind(kind)
		if err != nil {
			return nil, fmt.Errorf("schema of %s: %w", field, err)
		}
		schema[field] = k
	}
	return schema, nil
}

// Apply copies the configured options of the case onto a restcase.Case.
// Options that are not set in the file leave the target untouched.
func Apply[Entity, ID any](c Case, target *restcase.Case[Entity, ID]) error {
	schema, err := c.VerifySchema()
	if err != nil {
		return err
	}
	setString(&target.BaseName, c.BaseName)
	setString(&target.ListSuffix, c.ListSuffix)
	setString(&target.DetailSuffix, c.DetailSuffix)
	setString(&target.PaginationResultsField, c.PaginationResultsField)
	setString(&target.CreateName, c.CreateName)
	setString(&target.ResponseLookupField, c.ResponseLookupField)
	setString(&target.UpdateName, c.UpdateName)
	setString(&target.DestroyName, c.DestroyName)
	setString(&target.StateAttribute, c.StateAttribute)
	if c.AttributesToCheck != nil {
		target.AttributesToCheck = restcase.Attributes[Entity](c.AttributesToCheck...)
	}
	if c.CreateData != nil {
		target.CreateData = c.CreateData
	}
	if c.UpdateData != nil {
		target.UpdateData = c.UpdateData
	}
	if c.UpdateResults != nil {
		target.UpdateResults = c.UpdateResults
	}
	if c.UsePatch != nil {
		target.UsePatch = c.UsePatch
	}
	if schema != nil {
		target.Schema = schema
	}
	return nil
}

func setString(ptr *string, v string) {
	if v != "" {
		*ptr = v
	}
}
