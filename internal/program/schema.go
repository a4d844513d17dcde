package program

// File is the top-level layout of a resolved-program document.
//
//	classes:
//	  - name: pkg.Box
//	    type_params:
//	      - name: T
//	        bounds: ["kotlin.Number?"]
//	    members:
//	      - name: get
//	        returns: T
//	        modality: open
//	  - name: pkg.IntBox
//	    members:
//	      - name: get
//	        returns: kotlin.Int
//	        overrides: [pkg.Box#get]
type File struct {
	Classes []ClassSpec `yaml:"classes"`
}

// ClassSpec declares a class or interface.
type ClassSpec struct {
	Name string `yaml:"name"`
	// Interface marks the class as an interface.
	Interface bool `yaml:"interface,omitempty"`
	// ValueWrapper marks a single-value class that may be passed unboxed.
	ValueWrapper bool            `yaml:"value_wrapper,omitempty"`
	TypeParams   []TypeParamSpec `yaml:"type_params,omitempty"`
	Members      []MemberSpec    `yaml:"members,omitempty"`
}

// TypeParamSpec declares a type parameter with ordered upper bounds.
type TypeParamSpec struct {
	Name   string   `yaml:"name"`
	Bounds []string `yaml:"bounds,omitempty"`
}

// ParamSpec is a value parameter. Type is a type reference: a class name or a
// type parameter name in scope, with an optional trailing "?". Inside a YAML
// flow mapping or sequence the "?" form must be quoted ({type: "T?"});
// block style takes it bare.
type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// MemberSpec declares a class member.
type MemberSpec struct {
	// Key identifies the member within its class for override references
	// ("Class#key"). It defaults to Name; overloads need distinct keys.
	Key        string          `yaml:"key,omitempty"`
	Name       string          `yaml:"name"`
	Kind       string          `yaml:"kind,omitempty"`
	Receiver   string          `yaml:"receiver,omitempty"`
	Params     []ParamSpec     `yaml:"params,omitempty"`
	Returns    string          `yaml:"returns,omitempty"`
	Modality   string          `yaml:"modality,omitempty"`
	Visibility string          `yaml:"visibility,omitempty"`
	Origin     string          `yaml:"origin,omitempty"`
	Flags      []string        `yaml:"flags,omitempty"`
	Property   string          `yaml:"property,omitempty"`
	TypeParams []TypeParamSpec `yaml:"type_params,omitempty"`
	Overrides  []string        `yaml:"overrides,omitempty"`
}
