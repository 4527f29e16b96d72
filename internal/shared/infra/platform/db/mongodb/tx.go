package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// UnitOfWork ejecuta varias escrituras de forma atómica cuando el despliegue lo permite.
// Las transacciones requieren replica set; en un mongod standalone se desactivan
// y las escrituras se ejecutan en secuencia con el mismo contexto.
type UnitOfWork struct {
	client       *mongo.Client
	transactions bool
}

func NewUnitOfWork(client *mongo.Client, transactions bool) *UnitOfWork {
	return &UnitOfWork{client: client, transactions: transactions}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if u == nil || !u.transactions {
		return fn(ctx)
	}

	session, err := u.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
