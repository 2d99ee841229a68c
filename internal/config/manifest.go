package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vshenoy-coding/plotting-oceanographic-data/internal/domain"
)

// DefaultSources are the exports read when neither file arguments nor a
// manifest are given, resolved against the data directory.
var DefaultSources = []string{
	"CO-OPS__CFR1624__cu.csv",
	"CO-OPS__8724580__ws.csv",
	"CO-OPS__8540433__ml.csv",
	"CO-OPS__8453662__vs.csv",
}

// Manifest lists sources with explicit series kinds.
type Manifest struct {
	Sources []ManifestSource `yaml:"sources" validate:"required,min=1,dive"`

	dir string
}

// ManifestSource is one entry of a manifest. Station defaults to the middle
// token of the path's identifier.
type ManifestSource struct {
	Path    string `yaml:"path" validate:"required"`
	Kind    string `yaml:"kind" validate:"required,oneof=current wind monthly_level visibility cu ws ml vs"`
	Station string `yaml:"station" validate:"omitempty,alphanum"`
}

var manifestValidator = newManifestValidator()

func newManifestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// ParseManifest decodes and validates manifest YAML. Relative paths in the
// result resolve against the working directory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := manifestValidator.Struct(&m); err != nil {
		return nil, describeValidation(err)
	}
	return &m, nil
}

// Resolution is the outcome of resolving one source path. Err is set when
// the path could not be classified; Source then carries only ID and Path.
type Resolution struct {
	Source domain.SourceDescriptor
	Err    error
}

// Resolve resolves every entry independently, in manifest order.
func (m *Manifest) Resolve() []Resolution {
	out := make([]Resolution, 0, len(m.Sources))
	for _, s := range m.Sources {
		path := s.Path
		if m.dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		kind, err := domain.ParseSeriesKind(s.Kind)
		if err != nil {
			out = append(out, unresolved(path, err))
			continue
		}
		src, err := domain.NewSourceDescriptor(path, kind, s.Station)
		if err != nil {
			out = append(out, unresolved(path, err))
			continue
		}
		out = append(out, Resolution{Source: src})
	}
	return out
}

// Descriptors resolves every entry into a source descriptor. The first entry
// that cannot be resolved is an error.
func (m *Manifest) Descriptors() ([]domain.SourceDescriptor, error) {
	return firstFailure(m.Resolve())
}

// ResolveSources picks the source list: explicit paths first, then the
// manifest, then DefaultSources under dataDir. Any source that cannot be
// classified is an error.
func ResolveSources(paths []string, manifestPath, dataDir string, lenient bool) ([]domain.SourceDescriptor, error) {
	res, err := ResolveEach(paths, manifestPath, dataDir, lenient)
	if err != nil {
		return nil, err
	}
	return firstFailure(res)
}

// ResolveEach resolves sources with the same precedence as ResolveSources but
// reports classification failures per source, in input order. Only an
// unreadable or invalid manifest fails the whole call.
func ResolveEach(paths []string, manifestPath, dataDir string, lenient bool) ([]Resolution, error) {
	if len(paths) == 0 && manifestPath != "" {
		m, err := LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return m.Resolve(), nil
	}

	if len(paths) == 0 {
		for _, name := range DefaultSources {
			paths = append(paths, filepath.Join(dataDir, name))
		}
	}

	out := make([]Resolution, 0, len(paths))
	for _, p := range paths {
		src, err := domain.DescribePath(p, lenient)
		if err != nil {
			out = append(out, unresolved(p, err))
			continue
		}
		out = append(out, Resolution{Source: src})
	}
	return out, nil
}

func unresolved(path string, err error) Resolution {
	return Resolution{
		Source: domain.SourceDescriptor{ID: filepath.Base(path), Path: path},
		Err:    err,
	}
}

func firstFailure(res []Resolution) ([]domain.SourceDescriptor, error) {
	out := make([]domain.SourceDescriptor, 0, len(res))
	for _, r := range res {
		if r.Err != nil {
			return nil, r.Err
		}
		out = append(out, r.Source)
	}
	return out, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New("invalid manifest: " + strings.Join(msgs, "; "))
}
