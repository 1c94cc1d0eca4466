package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	sigsyaml "sigs.k8s.io/yaml"
)

// SupportedVersions is the constraint a schema file's version must satisfy.
const SupportedVersions = "^1.0.0"

//go:embed schemafile.schema.json
var fileSchemaBytes []byte

var (
	compiledFileSchema *jsonschema.Schema
	compileOnce        sync.Once
	compileErr         error
	printer            = message.NewPrinter(language.English)
)

// File is the on-disk representation of a schema.
type File struct {
	// Version is an optional semantic version of the file format.
	Version string `json:"version,omitempty"`

	// Types lists the descriptors in declaration order.
	Types []TypeDescriptor `json:"types"`
}

// Issue is a single structural problem found in a schema file.
type Issue struct {
	Path    string
	Message string
}

// FileError reports a schema file that does not match the file format.
type FileError struct {
	Issues []Issue
}

func (e *FileError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path == "" {
			parts = append(parts, is.Message)
			continue
		}

		parts = append(parts, is.Path+": "+is.Message)
	}

	return "invalid schema file: " + strings.Join(parts, "; ")
}

func getFileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(fileSchemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema file schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schemafile.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}

		compiledFileSchema, compileErr = c.Compile("schemafile.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema file schema: %w", compileErr)
		}
	})

	return compiledFileSchema, compileErr
}

// LoadFile reads a YAML or JSON schema file and builds a registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading schema file %s: %w", path, err)
	}

	return reg, nil
}

// Parse decodes schema file bytes (YAML or JSON), validates their structure
// and version, and builds a registry.
func Parse(data []byte) (*Registry, error) {
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	return NewRegistry(f.Types)
}

// ParseFile decodes and validates schema file bytes without building a
// registry.
func ParseFile(data []byte) (*File, error) {
	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	if err := validateStructure(jsonData); err != nil {
		return nil, err
	}

	var f File
	if err := sigsyaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding schema file: %w", err)
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}

	return &f, nil
}

func validateStructure(jsonData []byte) error {
	sch, err := getFileSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("preparing schema file for validation: %w", err)
	}

	err = sch.Validate(inst)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validating schema file: %w", err)
	}

	var issues []Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		issues = append(issues, Issue{Message: ve.Error()})
	}

	return &FileError{Issues: issues}
}

// collectIssues walks the validation error tree and keeps leaf errors.
func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}

		return
	}

	if ve.ErrorKind == nil {
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	*issues = append(*issues, Issue{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
	})
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}

	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", SupportedVersions, err)
	}

	sv, err := semver.NewVersion(v)
	if err != nil {
		return &FileError{Issues: []Issue{{Path: "/version", Message: fmt.Sprintf("invalid version %q: %v", v, err)}}}
	}

	if !c.Check(sv) {
		return &FileError{Issues: []Issue{{
			Path:    "/version",
			Message: fmt.Sprintf("version %s is not supported (want %s)", sv, SupportedVersions),
		}}}
	}

	return nil
}
