package biometric

import (
	"context"
	"sync"
)

type fakeHardware struct {
	hardware   bool
	enrolled   bool
	modalities []string

	hardwareErr error
	enrolledErr error
	modalityErr error
	panicOn     string
}

func (f *fakeHardware) HasHardware(context.Context) (bool, error) {
	if f.panicOn == "hardware" {
		panic("native module missing")
	}
	return f.hardware, f.hardwareErr
}

func (f *fakeHardware) IsEnrolled(context.Context) (bool, error) {
	if f.panicOn == "enrolled" {
		panic("native module missing")
	}
	return f.enrolled, f.enrolledErr
}

func (f *fakeHardware) SupportedModalities(context.Context) ([]string, error) {
	if f.panicOn == "modalities" {
		panic("native module missing")
	}
	return f.modalities, f.modalityErr
}

func readyHardware() *fakeHardware {
	return &fakeHardware{hardware: true, enrolled: true, modalities: []string{"face"}}
}

// fakePrompt answers with result (or err) and records every request.
type fakePrompt struct {
	mu       sync.Mutex
	result   PromptResult
	err      error
	panics   bool
	requests []PromptRequest
}

func (f *fakePrompt) Authenticate(_ context.Context, req PromptRequest) (PromptResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.panics {
		panic("prompt crashed")
	}
	return f.result, f.err
}

func (f *fakePrompt) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func approvingPrompt() *fakePrompt {
	return &fakePrompt{result: PromptResult{Success: true}}
}

func refusingPrompt(code string) *fakePrompt {
	return &fakePrompt{result: PromptResult{ErrorCode: code}}
}
