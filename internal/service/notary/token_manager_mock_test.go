package notary

import (
	"sync"
)

var _ tokenManager = &tokenManagerMock{}

type tokenManagerMock struct {
	GenerateFunc func(uid string, documentType string) (string, error)
	ValidateFunc func(token string) (string, error)

	calls struct {
		Generate []struct {
			UID          string
			DocumentType string
		}
		Validate []struct {
			Token string
		}
	}
	lockGenerate sync.RWMutex
	lockValidate sync.RWMutex
}

func (mock *tokenManagerMock) Generate(uid string, documentType string) (string, error) {
	if mock.GenerateFunc == nil {
		panic("tokenManagerMock.GenerateFunc: method is nil but tokenManager.Generate was just called")
	}
	callInfo := struct {
		UID          string
		DocumentType string
	}{UID: uid, DocumentType: documentType}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(uid, documentType)
}

func (mock *tokenManagerMock) GenerateCalls() []struct {
	UID          string
	DocumentType string
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}

func (mock *tokenManagerMock) Validate(token string) (string, error) {
	if mock.ValidateFunc == nil {
		panic("tokenManagerMock.ValidateFunc: method is nil but tokenManager.Validate was just called")
	}
	callInfo := struct{ Token string }{Token: token}
	mock.lockValidate.Lock()
	mock.calls.Validate = append(mock.calls.Validate, callInfo)
	mock.lockValidate.Unlock()
	return mock.ValidateFunc(token)
}

func (mock *tokenManagerMock) ValidateCalls() []struct{ Token string } {
	mock.lockValidate.RLock()
	calls := mock.calls.Validate
	mock.lockValidate.RUnlock()
	return calls
}
