package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

const filesCollection = "files"

// FileRepository keeps the audit trail of processed uploads.
type FileRepository struct {
	coll *mongo.Collection
}

func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{coll: db.Collection(filesCollection)}
}

type fileDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Filename   string             `bson:"filename"`
	StoredPath string             `bson:"stored_path,omitempty"`
	UploadedAt int64              `bson:"uploaded_at"`
	UploadedBy string             `bson:"uploaded_by,omitempty"`
	Rows       int                `bson:"rows"`
	Skipped    int                `bson:"skipped"`
}

func (r *FileRepository) Save(ctx context.Context, meta *domain.FileMetadata) error {
	doc := fileDoc{
		Filename:   meta.Filename,
		StoredPath: meta.StoredPath,
		UploadedAt: meta.UploadedAt.Unix(),
		UploadedBy: meta.UploadedBy,
		Rows:       meta.Rows,
		Skipped:    meta.Skipped,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert file metadata: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		meta.ID = oid.Hex()
	}
	return nil
}
