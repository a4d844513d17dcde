package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"erasure/internal/symbols"
)

// ArtifactSchema is bumped whenever the Artifact layout changes.
const ArtifactSchema uint16 = 1

// ErrSchemaMismatch is returned when reading an artifact of another schema.
var ErrSchemaMismatch = errors.New("artifact schema mismatch")

// Artifact is the lowered program handed to code emission: every class with
// its final member list and the emitted name of each member.
type Artifact struct {
	Schema  uint16
	Source  string
	Mode    string
	Classes []ClassArtifact
}

// ClassArtifact lists a class's members in table order, bridges last.
type ClassArtifact struct {
	Name      string
	Interface bool
	Members   []MemberArtifact
}

// MemberArtifact describes one member.
type MemberArtifact struct {
	Name      string // source name
	Emitted   string // name with mangling suffix, if any
	Kind      string
	Origin    string
	Signature string   // erased signature; empty for constructors and statics
	Params    []string // parameter types, receiver first when present
	Return    string
	// Target is the member a bridge calls.
	Target string `msgpack:",omitempty"`
	// Delegate is the inherited implementation behind a fake-override target.
	Delegate string `msgpack:",omitempty"`
}

// Artifact renders the result for emission.
func (r *Result) Artifact() *Artifact {
	in, tbl := r.prog.Types, r.prog.Decls
	a := &Artifact{
		Schema:  ArtifactSchema,
		Source:  r.prog.Path,
		Mode:    r.mode.String(),
		Classes: make([]ClassArtifact, 0, len(r.Classes)),
	}
	for _, c := range r.Classes {
		ca := ClassArtifact{Name: c.Name}
		if info, ok := in.Class(c.Class); ok {
			ca.Interface = info.Interface
		}
		for _, m := range c.Members {
			d := tbl.Decl(m.Decl)
			ma := MemberArtifact{
				Name:    d.Name,
				Emitted: m.Name,
				Kind:    d.Kind.String(),
				Origin:  d.Origin.String(),
				Return:  in.Format(d.Return),
			}
			for _, t := range d.ParticipatingTypes() {
				ma.Params = append(ma.Params, in.Format(t))
			}
			if d.Kind != symbols.DeclConstructor && !d.IsStatic() {
				ma.Signature = r.sigs.Get(m.Decl).String()
			}
			if d.Body != nil {
				ma.Target = tbl.Describe(in, d.Body.Target)
				if target := tbl.Decl(d.Body.Target); target != nil && !target.IsReal() {
					if impl, err := r.lowerer.Implementation(d.Body.Target); err == nil {
						ma.Delegate = tbl.Describe(in, impl)
					} else {
						Logger().Debug("no delegate for bridge target", zap.String("target", ma.Target), zap.Error(err))
					}
				}
			}
			ca.Members = append(ca.Members, ma)
		}
		a.Classes = append(a.Classes, ca)
	}
	return a
}

// WriteArtifact encodes a with msgpack and atomically replaces path.
func WriteArtifact(path string, a *Artifact) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".artifact-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadArtifact decodes an artifact written by WriteArtifact.
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var a Artifact
	if err := msgpack.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if a.Schema != ArtifactSchema {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchemaMismatch, a.Schema, ArtifactSchema)
	}
	return &a, nil
}
