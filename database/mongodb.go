package database

import (
	"context"
	"os"
	"reports-api/utils"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	MONGO_TIMEOUT      = 20 * time.Second
	COLLECTION_REPORTS = "reports"
)

func GetDB() string {
	if name := os.Getenv(utils.MONGODB_DATABASE); name != "" {
		return name
	}

	switch os.Getenv(utils.ENV) {
	case utils.ENV_RELEASE:
		return "production"
	case utils.ENV_HOMOLOG:
		return "homolog"
	default:
		return "development"
	}
}

// Connect opens a client and pings the primary. The caller owns the returned
// client and must Disconnect it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, eris.Wrap(utils.ErrConfiguration, "missing MONGODB_URI")
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetTimeout(MONGO_TIMEOUT).
		SetBSONOptions(&options.BSONOptions{ObjectIDAsHexString: true}))
	if err != nil {
		return nil, eris.Wrapf(utils.ErrConfiguration, "mongo connect: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrapf(utils.ErrConnectivity, "mongo ping: %v", err)
	}

	return client, nil
}
