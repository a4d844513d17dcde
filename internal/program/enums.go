package program

import (
	"fmt"
	"strings"

	"erasure/internal/symbols"
)

func parseKind(s string) (symbols.DeclKind, error) {
	switch strings.ToLower(s) {
	case "", "function", "fun":
		return symbols.DeclFunction, nil
	case "getter", "get":
		return symbols.DeclGetter, nil
	case "setter", "set":
		return symbols.DeclSetter, nil
	case "constructor":
		return symbols.DeclConstructor, nil
	default:
		return symbols.DeclInvalid, fmt.Errorf("unknown member kind %q", s)
	}
}

func parseModality(s string) (symbols.Modality, error) {
	switch strings.ToLower(s) {
	case "", "final":
		return symbols.ModalityFinal, nil
	case "open":
		return symbols.ModalityOpen, nil
	case "abstract":
		return symbols.ModalityAbstract, nil
	default:
		return symbols.ModalityFinal, fmt.Errorf("unknown modality %q", s)
	}
}

func parseVisibility(s string) (symbols.Visibility, error) {
	switch strings.ToLower(s) {
	case "", "public":
		return symbols.VisibilityPublic, nil
	case "protected":
		return symbols.VisibilityProtected, nil
	case "internal":
		return symbols.VisibilityInternal, nil
	case "private":
		return symbols.VisibilityPrivate, nil
	case "invisible_fake":
		return symbols.VisibilityInvisibleFake, nil
	default:
		return symbols.VisibilityPublic, fmt.Errorf("unknown visibility %q", s)
	}
}

// Bridges only come out of lowering, so the loader rejects them.
func parseOrigin(s string) (symbols.Origin, error) {
	switch strings.ToLower(s) {
	case "", "declared":
		return symbols.OriginDeclared, nil
	case "fake_override", "fake":
		return symbols.OriginFakeOverride, nil
	default:
		return symbols.OriginDeclared, fmt.Errorf("unknown origin %q", s)
	}
}

func parseFlags(list []string) (symbols.DeclFlags, error) {
	var flags symbols.DeclFlags
	for _, s := range list {
		switch strings.ToLower(s) {
		case "inline":
			flags |= symbols.DeclFlagInline
		case "external":
			flags |= symbols.DeclFlagExternal
		case "tailrec":
			flags |= symbols.DeclFlagTailrec
		case "suspend":
			flags |= symbols.DeclFlagSuspend
		case "static":
			flags |= symbols.DeclFlagStatic
		default:
			return 0, fmt.Errorf("unknown flag %q", s)
		}
	}
	return flags, nil
}
