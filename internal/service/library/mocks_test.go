package library

import (
	"context"
	"sync"
)

var _ source = &sourceMock{}

type sourceMock struct {
	FetchFunc func(ctx context.Context) (string, error)
	NameFunc  func() string

	calls struct {
		Fetch []struct {
			Ctx context.Context
		}
	}
	lockFetch sync.RWMutex
}

func (mock *sourceMock) Fetch(ctx context.Context) (string, error) {
	if mock.FetchFunc == nil {
		panic("sourceMock.FetchFunc: method is nil but source.Fetch was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockFetch.Lock()
	mock.calls.Fetch = append(mock.calls.Fetch, callInfo)
	mock.lockFetch.Unlock()
	return mock.FetchFunc(ctx)
}

func (mock *sourceMock) FetchCalls() []struct {
	Ctx context.Context
} {
	mock.lockFetch.RLock()
	calls := mock.calls.Fetch
	mock.lockFetch.RUnlock()
	return calls
}

func (mock *sourceMock) Name() string {
	if mock.NameFunc == nil {
		return "mock"
	}
	return mock.NameFunc()
}

var _ orderProvider = &orderProviderMock{}

type orderProviderMock struct {
	OrganizationOrderFunc func(ctx context.Context) ([]string, error)
}

func (mock *orderProviderMock) OrganizationOrder(ctx context.Context) ([]string, error) {
	if mock.OrganizationOrderFunc == nil {
		panic("orderProviderMock.OrganizationOrderFunc: method is nil but orderProvider.OrganizationOrder was just called")
	}
	return mock.OrganizationOrderFunc(ctx)
}
