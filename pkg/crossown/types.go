package crossown

import (
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/dispatch"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/keepalive"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

// Type aliases for convenience so callers can stay on the root package.

type (
	ValueShape = ownership.ValueShape
	Policy     = ownership.Policy
	Owner      = ownership.Owner
	Decision   = ownership.Decision
	ObjectID   = keepalive.ObjectID
	Site       = dispatch.Site
)

const NoObject = keepalive.NoObject

const (
	OwningHandle = ownership.OwningHandle
	SharedHandle = ownership.SharedHandle
	RawReference = ownership.RawReference
	ByValue      = ownership.ByValue
)

const (
	TakeOwnership      = ownership.TakeOwnership
	Copy               = ownership.Copy
	Move               = ownership.Move
	Reference          = ownership.Reference
	ReferenceInternal  = ownership.ReferenceInternal
	Automatic          = ownership.Automatic
	AutomaticReference = ownership.AutomaticReference
)

const (
	CallerRuntime = ownership.CallerRuntime
	CalleeRuntime = ownership.CalleeRuntime
	Shared        = ownership.Shared
)
