package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"erasure/internal/symbols"
	"erasure/internal/types"
)

// ErrUnknownType is returned for a type reference that names neither a class
// nor a type parameter in scope.
var ErrUnknownType = errors.New("unknown type")

// ErrUnknownMember is returned for an override reference to a missing member.
var ErrUnknownMember = errors.New("unknown member")

// Load reads and parses a resolved-program file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes program content. The path is used only for error messages.
// Unknown fields are rejected.
func Parse(data []byte, path string) (*Program, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p, err := Build(&f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path
	return p, nil
}

// Build turns a decoded File into a Program.
func Build(f *File) (*Program, error) {
	l := &loader{
		in:  types.NewInterner(),
		tbl: symbols.NewTable(0),
		p:   &Program{keys: make(map[string]symbols.DeclID), names: make(map[symbols.DeclID]string)},
	}
	if err := l.load(f); err != nil {
		return nil, err
	}
	if err := l.tbl.Validate(); err != nil {
		return nil, err
	}
	l.p.Types, l.p.Decls = l.in, l.tbl
	return l.p, nil
}

// ident normalizes an identifier so that visually equal names compare equal.
func ident(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

type scope struct {
	parent *scope
	params map[string]types.TypeParamID
}

func (s *scope) lookup(name string) (types.TypeParamID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if p, ok := cur.params[name]; ok {
			return p, true
		}
	}
	return types.NoTypeParamID, false
}

type loader struct {
	in  *types.Interner
	tbl *symbols.Table
	p   *Program
}

type pendingOverride struct {
	id   symbols.DeclID
	refs []string
}

func (l *loader) load(f *File) error {
	classes := make([]types.ClassID, len(f.Classes))
	for i, cs := range f.Classes {
		name := ident(cs.Name)
		id := l.in.Builtins().Root
		if name != types.RootClassName || cs.Interface || cs.ValueWrapper {
			var err error
			id, err = l.in.RegisterClass(types.ClassInfo{
				FQName:       name,
				Interface:    cs.Interface,
				ValueWrapper: cs.ValueWrapper,
			})
			if err != nil {
				return fmt.Errorf("classes[%d]: %w", i, err)
			}
		}
		l.tbl.AddClass(id)
		classes[i] = id
	}

	scopes := make([]*scope, len(f.Classes))
	for i, cs := range f.Classes {
		sc, err := l.declareTypeParams(cs.TypeParams, ident(cs.Name), nil)
		if err != nil {
			return fmt.Errorf("class %s: %w", ident(cs.Name), err)
		}
		scopes[i] = sc
	}

	var pending []pendingOverride
	for i, cs := range f.Classes {
		owner := ident(cs.Name)
		for j, ms := range cs.Members {
			id, err := l.declareMember(classes[i], owner, ms, scopes[i])
			if err != nil {
				return fmt.Errorf("class %s: members[%d]: %w", owner, j, err)
			}
			if len(ms.Overrides) > 0 {
				pending = append(pending, pendingOverride{id: id, refs: ms.Overrides})
			}
		}
	}

	for _, po := range pending {
		d := l.tbl.Decl(po.id)
		for _, ref := range po.refs {
			key := normalizeRef(ref)
			target, ok := l.p.keys[key]
			if !ok {
				return fmt.Errorf("%s overrides %s: %w", l.p.names[po.id], key, ErrUnknownMember)
			}
			d.Overridden = append(d.Overridden, target)
		}
	}
	return nil
}

// declareTypeParams registers every parameter before resolving bounds so
// bounds may refer to each other.
func (l *loader) declareTypeParams(specs []TypeParamSpec, owner string, parent *scope) (*scope, error) {
	sc := &scope{parent: parent, params: make(map[string]types.TypeParamID, len(specs))}
	ids := make([]types.TypeParamID, len(specs))
	for i, tp := range specs {
		name := ident(tp.Name)
		if name == "" {
			return nil, fmt.Errorf("type_params[%d]: empty name", i)
		}
		if _, dup := sc.params[name]; dup {
			return nil, fmt.Errorf("duplicate type parameter %s", name)
		}
		ids[i] = l.in.RegisterTypeParam(name, owner)
		sc.params[name] = ids[i]
	}
	for i, tp := range specs {
		if len(tp.Bounds) == 0 {
			continue
		}
		bounds := make([]types.TypeID, len(tp.Bounds))
		for j, b := range tp.Bounds {
			t, err := l.typeRef(b, sc)
			if err != nil {
				return nil, fmt.Errorf("type parameter %s: %w", ident(tp.Name), err)
			}
			bounds[j] = t
		}
		l.in.SetBounds(ids[i], bounds)
	}
	return sc, nil
}

func (l *loader) declareMember(class types.ClassID, owner string, ms MemberSpec, classScope *scope) (symbols.DeclID, error) {
	name := ident(ms.Name)
	if name == "" {
		return symbols.NoDeclID, errors.New("empty member name")
	}
	key := ident(ms.Key)
	if key == "" {
		key = name
	}
	ref := owner + "#" + key
	if _, dup := l.p.keys[ref]; dup {
		return symbols.NoDeclID, fmt.Errorf("duplicate member %s (set key to tell overloads apart)", ref)
	}

	sc := classScope
	if len(ms.TypeParams) > 0 {
		var err error
		if sc, err = l.declareTypeParams(ms.TypeParams, ref, classScope); err != nil {
			return symbols.NoDeclID, err
		}
	}

	d := symbols.Decl{Name: name, Owner: class, Property: ident(ms.Property)}
	var err error
	if d.Kind, err = parseKind(ms.Kind); err != nil {
		return symbols.NoDeclID, err
	}
	if d.Modality, err = parseModality(ms.Modality); err != nil {
		return symbols.NoDeclID, err
	}
	if d.Visibility, err = parseVisibility(ms.Visibility); err != nil {
		return symbols.NoDeclID, err
	}
	if d.Origin, err = parseOrigin(ms.Origin); err != nil {
		return symbols.NoDeclID, err
	}
	if d.Flags, err = parseFlags(ms.Flags); err != nil {
		return symbols.NoDeclID, err
	}
	if ms.Returns != "" {
		if d.Return, err = l.typeRef(ms.Returns, sc); err != nil {
			return symbols.NoDeclID, fmt.Errorf("%s: return: %w", ref, err)
		}
	}
	if ms.Receiver != "" {
		t, err := l.typeRef(ms.Receiver, sc)
		if err != nil {
			return symbols.NoDeclID, fmt.Errorf("%s: receiver: %w", ref, err)
		}
		p := l.tbl.NewParam("<this>", t, -1)
		d.Receiver = &p
	}
	for i, ps := range ms.Params {
		t, err := l.typeRef(ps.Type, sc)
		if err != nil {
			return symbols.NoDeclID, fmt.Errorf("%s: params[%d]: %w", ref, i, err)
		}
		pname := ident(ps.Name)
		if pname == "" {
			pname = fmt.Sprintf("p%d", i)
		}
		d.Params = append(d.Params, l.tbl.NewParam(pname, t, i))
	}

	id := l.tbl.Declare(d)
	l.p.keys[ref] = id
	l.p.names[id] = ref
	return id, nil
}

func (l *loader) typeRef(ref string, sc *scope) (types.TypeID, error) {
	name := ident(ref)
	nullable := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")
	if name == "" {
		return types.NoTypeID, fmt.Errorf("%w: empty reference", ErrUnknownType)
	}
	if p, ok := sc.lookup(name); ok {
		return l.in.Param(p, nullable), nil
	}
	if c, ok := l.in.ClassByName(name); ok {
		return l.in.Nominal(c, nullable), nil
	}
	return types.NoTypeID, fmt.Errorf("%w: %s", ErrUnknownType, name)
}

func normalizeRef(ref string) string {
	ref = ident(ref)
	class, key, ok := strings.Cut(ref, "#")
	if !ok {
		return ref
	}
	return ident(class) + "#" + ident(key)
}
