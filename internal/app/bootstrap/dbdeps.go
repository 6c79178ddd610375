// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end clients built in ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Files is nil when Drive is not configured.
	Files filestore.Files
}
