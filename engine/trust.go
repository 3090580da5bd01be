// engine/trust.go
package engine

import (
	"github.com/doorward-io/doorward/model"
)

// TrustDecision is the outcome of the device/session gate.
type TrustDecision struct {
	OK     bool
	Reason string
}

// TrustGate decides whether the calling principal's device is authorized and
// its session currently valid. It is a pure decision over flags the auth
// gateway has already resolved; it never mutates them. A stale session on a
// trusted device is reported distinctly so the calling layer can force a
// re-login without discarding the device's long-lived authorization.
type TrustGate struct{}

func NewTrustGate() *TrustGate {
	return &TrustGate{}
}

func (g *TrustGate) Authorize(p model.Principal) TrustDecision {
	if !p.DeviceTrusted {
		return TrustDecision{OK: false, Reason: model.ReasonDeviceNotAuthorized}
	}
	if !p.SessionValid {
		return TrustDecision{OK: false, Reason: model.ReasonSessionInvalid}
	}
	return TrustDecision{OK: true}
}
