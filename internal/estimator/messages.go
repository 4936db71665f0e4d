package estimator

import "time"

// Msg is an input to Handle.
type Msg interface {
	isMsg()
}

// RecomputeRequested carries a new selection from the selection owner.
type RecomputeRequested struct {
	Selection Selection
}

// FrameTick is the host's refresh signal for a previously requested frame.
type FrameTick struct {
	Token FrameToken
	Now   time.Duration
}

// Teardown destroys the estimator's animation state.
type Teardown struct{}

func (RecomputeRequested) isMsg() {}
func (FrameTick) isMsg()          {}
func (Teardown) isMsg()           {}

// Cmd is what the host must do after Handle returns. Nil means nothing.
type Cmd interface {
	isCmd()
}

// RequestFrame asks the host for one refresh callback delivering Token.
type RequestFrame struct {
	Token FrameToken
}

// CancelFrame withdraws a request the host may still be holding.
type CancelFrame struct {
	Token FrameToken
}

func (RequestFrame) isCmd() {}
func (CancelFrame) isCmd()  {}

// Handle is the message-passing entry point over Update, Tick and Close.
func (e *Estimator) Handle(msg Msg) Cmd {
	switch m := msg.(type) {
	case RecomputeRequested:
		if token, ok := e.Update(m.Selection); ok {
			return RequestFrame{Token: token}
		}
	case FrameTick:
		if token, ok := e.Tick(m.Token, m.Now); ok {
			return RequestFrame{Token: token}
		}
	case Teardown:
		token, pending := e.Pending()
		e.Close()
		if pending {
			return CancelFrame{Token: token}
		}
	}
	return nil
}
