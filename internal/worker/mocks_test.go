package worker_test

import (
	"context"
	"errors"

	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/queue"
	"supporttriage.app/backend/internal/store"
	"supporttriage.app/backend/internal/worker"
)

type mockConsumer struct {
	batches  [][]queue.Message
	readErr  error
	acked    []string
	requeued []string
	dlq      []string
	reasons  []string
	// onDrained runs when Read finds no batches left.
	onDrained func()
}

func (m *mockConsumer) Read(context.Context) ([]queue.Message, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.batches) == 0 {
		if m.onDrained != nil {
			m.onDrained()
		}
		return nil, nil
	}
	next := m.batches[0]
	m.batches = m.batches[1:]
	return next, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, errMsg string) error {
	m.requeued = append(m.requeued, msg.ID)
	m.reasons = append(m.reasons, errMsg)
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.dlq = append(m.dlq, msg.ID)
	m.reasons = append(m.reasons, errMsg)
	return nil
}

type memoryRunStore struct {
	runs      map[int64]model.AiRun
	getErr    error
	createErr error
	panicOn   int64
}

func newMemoryRunStore() *memoryRunStore {
	return &memoryRunStore{runs: map[int64]model.AiRun{}}
}

func (m *memoryRunStore) Create(_ context.Context, run *model.AiRun) (*model.AiRun, error) {
	if run.ID == m.panicOn {
		panic("boom")
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.runs[run.ID] = *run
	return run, nil
}

func (m *memoryRunStore) GetByID(_ context.Context, id int64) (*model.AiRun, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	run, ok := m.runs[id]
	if !ok {
		return nil, &store.NotFoundError{Entity: "ai run", ID: id}
	}
	return &run, nil
}

func (m *memoryRunStore) ListByTicket(context.Context, int64) ([]model.AiRun, error) {
	return nil, errors.New("not implemented")
}

type runStores struct {
	runs *memoryRunStore
}

func (s runStores) AiRuns() store.AiRunStore { return s.runs }

type mockTxRunner struct {
	runs *memoryRunStore
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(worker.StoreProvider) error) error {
	return fn(runStores{runs: m.runs})
}
