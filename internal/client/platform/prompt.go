package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/walletkeeper/internal/client/biometric"
)

// TerminalPrompt asks for confirmation on a console. Answers:
//
//	y, yes, <enter>   success
//	n, no             user_cancel
//	p                 user_fallback (the cancel label action)
//	d                 success via device passcode, when allowed
//	anything else     authentication_failed
//
// End of input reports system_cancel.
type TerminalPrompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompt(in *bufio.Reader, out io.Writer) *TerminalPrompt {
	return &TerminalPrompt{in: in, out: out}
}

func (p *TerminalPrompt) Authenticate(ctx context.Context, req biometric.PromptRequest) (biometric.PromptResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return biometric.PromptResult{ErrorCode: biometric.CodeAppCancel}, nil
	}

	cancel := req.CancelLabel
	if cancel == "" {
		cancel = "Cancel"
	}
	options := fmt.Sprintf("[y] confirm  [n] cancel  [p] %s", cancel)
	if req.AllowDeviceFallback {
		options += "  [d] device passcode"
	}
	if _, err := fmt.Fprintf(p.out, "%s\n%s\n> ", req.Message, options); err != nil {
		return biometric.PromptResult{}, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return biometric.PromptResult{ErrorCode: biometric.CodeSystemCancel}, nil
		}
		if !errors.Is(err, io.EOF) {
			return biometric.PromptResult{}, err
		}
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return biometric.PromptResult{Success: true}, nil
	case "n", "no":
		return biometric.PromptResult{ErrorCode: biometric.CodeUserCancel}, nil
	case "p":
		return biometric.PromptResult{ErrorCode: biometric.CodeUserFallback}, nil
	case "d":
		if req.AllowDeviceFallback {
			return biometric.PromptResult{Success: true}, nil
		}
		return biometric.PromptResult{ErrorCode: biometric.CodePasscodeNotSet}, nil
	default:
		return biometric.PromptResult{ErrorCode: biometric.CodeAuthenticationFailed}, nil
	}
}
