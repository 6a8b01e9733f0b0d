// Package codec centralizes report encoding.
//
// The DynamoDB report sink stores the codec name next to the encoded report
// so it can be decoded later.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Name is the stable identifier recorded next to encoded reports.
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string { return []string{"json", "go-json"} }

// Default is the codec used by report sinks unless configured otherwise.
var Default Codec = GoJSON{}
