package rest

import (
	"context"
	"sync"

	"github.com/w-udagawa/vlingual-cards/internal/service/library"
)

var _ datasetService = &datasetServiceMock{}

type datasetServiceMock struct {
	StatusFunc    func() library.Status
	LoadFunc      func(ctx context.Context) (library.Status, error)
	UseSampleFunc func(ctx context.Context) library.Status

	calls struct {
		Status    []struct{}
		Load      []struct{ Ctx context.Context }
		UseSample []struct{ Ctx context.Context }
	}
	lockStatus    sync.RWMutex
	lockLoad      sync.RWMutex
	lockUseSample sync.RWMutex
}

func (mock *datasetServiceMock) Status() library.Status {
	if mock.StatusFunc == nil {
		panic("datasetServiceMock.StatusFunc: method is nil but datasetService.Status was just called")
	}
	mock.lockStatus.Lock()
	mock.calls.Status = append(mock.calls.Status, struct{}{})
	mock.lockStatus.Unlock()
	return mock.StatusFunc()
}

func (mock *datasetServiceMock) Load(ctx context.Context) (library.Status, error) {
	if mock.LoadFunc == nil {
		panic("datasetServiceMock.LoadFunc: method is nil but datasetService.Load was just called")
	}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, struct{ Ctx context.Context }{ctx})
	mock.lockLoad.Unlock()
	return mock.LoadFunc(ctx)
}

func (mock *datasetServiceMock) LoadCalls() []struct{ Ctx context.Context } {
	mock.lockLoad.RLock()
	defer mock.lockLoad.RUnlock()
	return mock.calls.Load
}

func (mock *datasetServiceMock) UseSample(ctx context.Context) library.Status {
	if mock.UseSampleFunc == nil {
		panic("datasetServiceMock.UseSampleFunc: method is nil but datasetService.UseSample was just called")
	}
	mock.lockUseSample.Lock()
	mock.calls.UseSample = append(mock.calls.UseSample, struct{ Ctx context.Context }{ctx})
	mock.lockUseSample.Unlock()
	return mock.UseSampleFunc(ctx)
}

func (mock *datasetServiceMock) UseSampleCalls() []struct{ Ctx context.Context } {
	mock.lockUseSample.RLock()
	defer mock.lockUseSample.RUnlock()
	return mock.calls.UseSample
}
