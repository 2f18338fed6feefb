package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

const (
	salesCollection = "sales"
	salesMetaID     = "sales_meta"
)

// SalesRepository stores the dataset with replace-all semantics.
//
// A standalone mongod offers no multi-document transactions, so a naive
// delete-then-insert would let readers observe a half-replaced dataset. The
// repository instead writes each upload under a fresh generation number,
// flips a meta document to the new generation with a single atomic update,
// then purges older generations. Readers filter on the current generation and
// always see exactly one complete upload. The writer mutex serializes
// concurrent ReplaceAll calls; the last flip wins.
type SalesRepository struct {
	coll *mongo.Collection
	meta *mongo.Collection

	writeMu sync.Mutex
}

func NewSalesRepository(db *mongo.Database) *SalesRepository {
	return &SalesRepository{
		coll: db.Collection(salesCollection),
		meta: db.Collection("meta"),
	}
}

type saleDoc struct {
	Seq        int       `bson:"seq"`
	Generation int64     `bson:"generation"`
	OrderID    string    `bson:"order_id"`
	Product    string    `bson:"product"`
	Category   string    `bson:"category"`
	Amount     float64   `bson:"amount"`
	Profit     float64   `bson:"profit"`
	Date       time.Time `bson:"date"`
	Region     string    `bson:"region"`
	Visibility string    `bson:"visibility"`
}

type metaDoc struct {
	ID         string `bson:"_id"`
	Generation int64  `bson:"generation"`
}

func (r *SalesRepository) ReplaceAll(ctx context.Context, sales []domain.Sale) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current, err := r.currentGeneration(ctx)
	if err != nil {
		return err
	}
	next := current + 1

	if len(sales) > 0 {
		docs := make([]interface{}, len(sales))
		for i, s := range sales {
			docs[i] = saleDoc{
				Seq:        i,
				Generation: next,
				OrderID:    s.OrderID,
				Product:    s.Product,
				Category:   s.Category,
				Amount:     s.Amount,
				Profit:     s.Profit,
				Date:       s.Date,
				Region:     s.Region,
				Visibility: string(s.Visibility),
			}
		}
		if _, err := r.coll.InsertMany(ctx, docs); err != nil {
			// Abandoned rows of a failed upload; the generation was never
			// flipped so readers cannot see them. Purged on the next success.
			_, _ = r.coll.DeleteMany(ctx, bson.M{"generation": next})
			return fmt.Errorf("insert sales: %w", err)
		}
	}

	_, err = r.meta.UpdateOne(ctx,
		bson.M{"_id": salesMetaID},
		bson.M{"$set": bson.M{"generation": next}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		_, _ = r.coll.DeleteMany(ctx, bson.M{"generation": next})
		return fmt.Errorf("flip generation: %w", err)
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{"generation": bson.M{"$lt": next}}); err != nil {
		return fmt.Errorf("purge old generations: %w", err)
	}
	return nil
}

func (r *SalesRepository) List(ctx context.Context, includeAdmin bool) ([]domain.Sale, error) {
	gen, err := r.currentGeneration(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"generation": gen}
	if !includeAdmin {
		filter["visibility"] = string(domain.VisibilityPublic)
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cur.Close(ctx)

	sales := []domain.Sale{}
	for cur.Next(ctx) {
		var doc saleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sale: %w", err)
		}
		sales = append(sales, domain.Sale{
			OrderID:    doc.OrderID,
			Product:    doc.Product,
			Category:   doc.Category,
			Amount:     doc.Amount,
			Profit:     doc.Profit,
			Date:       doc.Date,
			Region:     doc.Region,
			Visibility: domain.Visibility(doc.Visibility),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (r *SalesRepository) currentGeneration(ctx context.Context) (int64, error) {
	var meta metaDoc
	err := r.meta.FindOne(ctx, bson.M{"_id": salesMetaID}).Decode(&meta)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("read sales meta: %w", err)
	}
	return meta.Generation, nil
}
