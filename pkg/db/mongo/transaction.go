package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/shamian84/college-appointment-system/pkg/errors"
)

// TransactionFunc runs inside a transaction. ctx is a mongo.SessionContext when
// the manager is transactional and must be passed to every store call.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

type directManager struct{}

// NewDirectManager runs fn without a session, for standalone servers that
// cannot host multi-document transactions.
func NewDirectManager() TransactionManager {
	return directManager{}
}

func (directManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return fn(ctx)
}

// NewManager picks the transactional manager when enabled and a client is available.
func NewManager(client *mongo.Client, useTransactions bool) TransactionManager {
	if useTransactions && client != nil {
		return NewTransactionManager(client)
	}
	return NewDirectManager()
}
