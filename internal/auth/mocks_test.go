package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// MockUserStore implements UserStore.
type MockUserStore struct {
	FindByIDFunc  func(ctx context.Context, id string) (*User, error)
	UpsertFunc    func(ctx context.Context, filter, set bson.M) (*User, error)
	UpdateSetFunc func(ctx context.Context, id string, set bson.M) error

	UpdateSetCalls []UpdateSetCall
}

type UpdateSetCall struct {
	ID  string
	Set bson.M
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserStore) Upsert(ctx context.Context, filter, set bson.M) (*User, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, filter, set)
	}
	return nil, nil
}

func (m *MockUserStore) UpdateSet(ctx context.Context, id string, set bson.M) error {
	m.UpdateSetCalls = append(m.UpdateSetCalls, UpdateSetCall{ID: id, Set: set})
	if m.UpdateSetFunc != nil {
		return m.UpdateSetFunc(ctx, id, set)
	}
	return nil
}
