package toolstream

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// handler is the internal implementation of Handler built by NewHandler
// or NewRawHandler.
type handler struct {
	name        ToolName
	description string
	schema      map[string]any
	invoke      func(context.Context, string) (DispatchResult, error)
	opts        handlerOptions
}

// NewHandler builds a Handler from a typed function. The directive's
// argument text is split on commas and bound positionally to the fields
// of T in declaration order; the last field absorbs any remainder, so a
// single-field struct receives the whole argument, commas included. The
// same struct drives the JSON Schema exported by the catalog and the
// default prompt hint.
//
// Field binding is controlled by the `arg` struct tag: `arg:"med_name"`
// names the value in prompts and errors, `arg:",optional"` permits a
// missing trailing value, `arg:"-"` skips the field. Supported field
// types: string, bool, signed integers, floats.
//
// Binding failures return a BindError whose message is safe to hand back
// to the LLM for self-correction. The result R is marshaled to JSON as
// the DispatchResult.
func NewHandler[T any, R any](
	name ToolName,
	description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...HandlerOption,
) (Handler, error) {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !name.Valid() {
		return nil, fmt.Errorf("tool name %q is not a valid wire name", name)
	}
	if fn == nil {
		return nil, fmt.Errorf("handler function must not be nil")
	}
	fields, err := structFields[T]()
	if err != nil {
		return nil, err
	}
	schema, err := generateSchema(new(T))
	if err != nil {
		return nil, err
	}
	if o.argHint == "" {
		hints := make([]string, len(fields))
		for i, f := range fields {
			hints[i] = f.name
		}
		o.argHint = strings.Join(hints, ", ")
	}
	invoke := func(ctx context.Context, argument string) (DispatchResult, error) {
		args, err := bindArgument[T](fields, argument)
		if err != nil {
			return nil, err
		}
		res, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, &SystemError{Err: err}
		}
		return b, nil
	}
	return &handler{
		name:        name,
		description: description,
		schema:      schema,
		invoke:      invoke,
		opts:        o,
	}, nil
}

// NewRawHandler builds a Handler that receives the directive's argument
// text verbatim. Use it for tools whose argument is free text (SEARCH,
// SET_GOAL) or needs custom parsing. No schema is generated; the catalog
// exports such tools with Parameters == nil.
func NewRawHandler(
	name ToolName,
	description string,
	fn func(ctx context.Context, argument string) (DispatchResult, error),
	opts ...HandlerOption,
) (Handler, error) {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !name.Valid() {
		return nil, fmt.Errorf("tool name %q is not a valid wire name", name)
	}
	if fn == nil {
		return nil, fmt.Errorf("handler function must not be nil")
	}
	return &handler{
		name:        name,
		description: description,
		invoke:      fn,
		opts:        o,
	}, nil
}

func (h *handler) Name() ToolName      { return h.name }
func (h *handler) Description() string { return h.description }

func (h *handler) Invoke(ctx context.Context, argument string) (DispatchResult, error) {
	return h.invoke(ctx, argument)
}

// Parameters returns a shallow copy of the JSON Schema (top-level keys
// only), or nil for raw handlers. Nested maps are shared; callers must
// not mutate them.
func (h *handler) Parameters() map[string]any {
	if h.schema == nil {
		return nil
	}
	return maps.Clone(h.schema)
}

func (h *handler) Timeout() time.Duration { return h.opts.timeout }
func (h *handler) Tags() []string         { return append([]string(nil), h.opts.tags...) }
func (h *handler) Version() string        { return h.opts.version }
func (h *handler) IsDangerous() bool      { return h.opts.dangerous }
func (h *handler) ArgHint() string        { return h.opts.argHint }

// boundField describes one positional slot of a handler's argument struct.
type boundField struct {
	index    int
	name     string
	optional bool
	kind     reflect.Kind
}

// structFields derives the positional binding plan from T's exported
// fields, in declaration order.
func structFields[T any]() ([]boundField, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type %s is not a struct", t)
	}
	var fields []boundField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("arg")
		if tag == "-" {
			continue
		}
		name, rest, _ := strings.Cut(tag, ",")
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		switch f.Type.Kind() {
		case reflect.String, reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Float32, reflect.Float64:
		default:
			return nil, fmt.Errorf("field %s: unsupported argument type %s", f.Name, f.Type)
		}
		fields = append(fields, boundField{
			index:    i,
			name:     name,
			optional: strings.Contains(rest, "optional"),
			kind:     f.Type.Kind(),
		})
	}
	return fields, nil
}

// bindArgument splits the argument text into at most len(fields) parts
// and converts each into the corresponding field. Missing or empty parts
// are allowed only for optional fields.
func bindArgument[T any](fields []boundField, argument string) (T, error) {
	var args T
	if len(fields) == 0 {
		return args, nil
	}
	v := reflect.ValueOf(&args).Elem()
	var parts []string
	if strings.TrimSpace(argument) != "" {
		parts = strings.SplitN(argument, ",", len(fields))
	}
	for i, f := range fields {
		var raw string
		if i < len(parts) {
			raw = strings.TrimSpace(parts[i])
		}
		if raw == "" {
			if f.optional {
				continue
			}
			var zero T
			return zero, &BindError{
				Reason: fmt.Sprintf("missing value for %q (expected: %s)", f.name, hintOf(fields)),
				Err:    ErrBind,
			}
		}
		if err := setField(v.Field(f.index), f, raw); err != nil {
			var zero T
			return zero, err
		}
	}
	return args, nil
}

func setField(fv reflect.Value, f boundField, raw string) error {
	switch f.kind {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return &BindError{Reason: fmt.Sprintf("%q is not a boolean for %q", raw, f.name), Err: ErrBind}
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || fv.OverflowInt(n) {
			return &BindError{Reason: fmt.Sprintf("%q is not an integer for %q", raw, f.name), Err: ErrBind}
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &BindError{Reason: fmt.Sprintf("%q is not a number for %q", raw, f.name), Err: ErrBind}
		}
		fv.SetFloat(x)
	}
	return nil
}

func hintOf(fields []boundField) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return strings.Join(names, ", ")
}

// generateSchema reflects v's type into a self-contained JSON Schema map
// (no $ref, no $schema/$id noise) for the catalog export.
func generateSchema(v any) (map[string]any, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	b, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m, nil
}

var (
	_ Handler         = (*handler)(nil)
	_ HandlerMetadata = (*handler)(nil)
	_ HandlerSchema   = (*handler)(nil)
)
