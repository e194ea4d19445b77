// Package ops binds every raster operation to a name and chooses between its
// gray and color variant once, at the boundary, from the input's channel
// count. The servers and the CLI resolve operations only through Lookup.
package ops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Params carries the numeric arguments shared by all operations. Each
// operation reads only the fields it needs.
type Params struct {
	Threshold int    `json:"threshold"`
	T1        int    `json:"t1"`
	T2        int    `json:"t2"`
	Kernel    int    `json:"kernel"`
	Value     int    `json:"value"`
	Rotation  string `json:"rotation"`
}

// DefaultParams returns the values used for fields a caller does not supply.
func DefaultParams() Params {
	return Params{Threshold: 50, T1: 30, T2: 100, Kernel: 3, Value: 128, Rotation: "clockwise"}
}

// ParamArgs is the decoded form of Params where a nil field means the caller
// did not supply it. Zero is a valid threshold, so presence is tracked
// separately from value.
type ParamArgs struct {
	Threshold *int    `json:"threshold"`
	T1        *int    `json:"t1"`
	T2        *int    `json:"t2"`
	Kernel    *int    `json:"kernel"`
	Value     *int    `json:"value"`
	Rotation  *string `json:"rotation"`
}

// Resolve returns the supplied fields over DefaultParams.
func (a ParamArgs) Resolve() Params {
	p := DefaultParams()
	setInt(&p.Threshold, a.Threshold)
	setInt(&p.T1, a.T1)
	setInt(&p.T2, a.T2)
	setInt(&p.Kernel, a.Kernel)
	setInt(&p.Value, a.Value)
	if a.Rotation != nil {
		p.Rotation = *a.Rotation
	}
	return p
}

func setInt(dst, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Func is one variant of an operation.
type Func func(r *raster.Raster, p Params) (*raster.Raster, error)

// Operation pairs the gray and color variants of a named operation. A nil
// variant means the operation does not accept that kind of raster.
type Operation struct {
	Name        string
	Description string
	Gray        Func
	Color       Func
}

// For returns the variant matching r.
func (o Operation) For(r *raster.Raster) (Func, error) {
	f := o.Color
	kind := "color"
	if r.IsGray() {
		f = o.Gray
		kind = "gray"
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s does not accept %s rasters", raster.ErrChannelMismatch, o.Name, kind)
	}
	return f, nil
}

// ErrUnknownOperation is returned by Lookup for unregistered names.
var ErrUnknownOperation = errors.New("unknown operation")

var registry = map[string]Operation{}

func register(op Operation) {
	registry[op.Name] = op
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Operation, error) {
	op, ok := registry[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op, nil
}

// Names lists the registered operations in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run looks up name, selects the variant for r and applies it. The logger
// stored in ctx, if any, receives one debug event per call.
func Run(ctx context.Context, name string, r *raster.Raster, p Params) (*raster.Raster, error) {
	op, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	f, err := op.For(r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := f(r, p)
	log := zerolog.Ctx(ctx)
	if err != nil {
		log.Debug().Err(err).Str("op", name).Msg("operation failed")
		return nil, err
	}
	log.Debug().
		Str("op", name).
		Int("width", r.Width()).
		Int("height", r.Height()).
		Int("channels", r.Channels()).
		Dur("elapsed", time.Since(start)).
		Msg("operation applied")
	return out, nil
}
