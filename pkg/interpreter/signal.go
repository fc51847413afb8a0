package interpreter

import (
	"fmt"

	"github.com/rhino1998/bhask/pkg/value"
)

type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalReturn
	SignalBreak
	SignalContinue
)

func (k SignalKind) String() string {
	switch k {
	case SignalNone:
		return "none"
	case SignalReturn:
		return "return"
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	default:
		return fmt.Sprintf("signal(%d)", int(k))
	}
}

// Signal is what a block reports to its caller once it stops. Value is only
// set for SignalReturn.
type Signal struct {
	Kind  SignalKind
	Value value.Value
}

func Return(v value.Value) Signal {
	if v == nil {
		v = value.Unit{}
	}

	return Signal{Kind: SignalReturn, Value: v}
}

func (s Signal) String() string {
	if s.Kind == SignalReturn {
		return fmt.Sprintf("return(%v)", s.Value)
	}

	return s.Kind.String()
}

// Sentinel is the control-flow marker a line processor reports for a plain
// line.
type Sentinel int

const (
	SentinelNormal Sentinel = iota
	SentinelBreak
	SentinelContinue
)
