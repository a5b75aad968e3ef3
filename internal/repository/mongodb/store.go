// Package mongodb contains MongoDB implementations of the repository interfaces.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// Store holds one database handle shared by every repository.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, ensures indexes and returns the store.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll string
		keys bson.D
	}{
		{repository.CollectionClients, bson.D{{Key: "tax_id", Value: 1}}},
		{repository.CollectionPurchaseOrders, bson.D{{Key: "number", Value: 1}}},
	}
	for _, ix := range indexes {
		_, err := s.db.Collection(ix.coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    ix.keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", ix.coll, err)
		}
	}
	_, err := s.db.Collection(repository.CollectionEquipment).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: model.FieldPurchaseOrderNumber, Value: 1}, {Key: model.FieldState, Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create equipment index: %w", err)
	}
	return nil
}

// Repositories returns every repository backed by the store.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Clients:   &ClientRepo{coll: s.db.Collection(repository.CollectionClients)},
		Equipment: &EquipmentRepo{coll: s.db.Collection(repository.CollectionEquipment)},
		Orders:    &OrderRepo{coll: s.db.Collection(repository.CollectionPurchaseOrders)},
		Catalog:   &CatalogRepo{db: s.db},
		Wiper:     s,
		Close:     s.Close,
	}
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// Wipe deletes every document of every business collection.
func (s *Store) Wipe(ctx context.Context) (map[string]int64, error) {
	colls := []string{
		repository.CollectionClients,
		repository.CollectionEquipment,
		repository.CollectionPurchaseOrders,
		repository.CollectionManufacturers,
		repository.CollectionModels,
		repository.CollectionFaultTypes,
	}
	counts := make(map[string]int64, len(colls))
	for _, name := range colls {
		res, err := s.db.Collection(name).DeleteMany(ctx, bson.D{})
		if err != nil {
			return counts, fmt.Errorf("wipe %s: %w", name, err)
		}
		counts[name] = res.DeletedCount
	}
	return counts, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}
	return err
}

// ClientRepo implements ClientRepository over a collection with embedded work centers.
type ClientRepo struct{ coll *mongo.Collection }

// Create inserts a client. The unique tax_id index turns duplicates into ErrConflict.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	_, err := r.coll.InsertOne(ctx, toClientEntity(c))
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrConflict
	}
	return err
}

// GetByID loads a client.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var e clientEntity
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	c := e.toModel()
	return &c, nil
}

// List returns every client ordered by creation.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	return r.find(ctx, bson.D{})
}

// FindByTaxID returns the clients with the tax id.
func (r *ClientRepo) FindByTaxID(ctx context.Context, taxID string) ([]model.Client, error) {
	return r.find(ctx, bson.D{{Key: "tax_id", Value: taxID}})
}

func (r *ClientRepo) find(ctx context.Context, filter bson.D) ([]model.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var ents []clientEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, err
	}
	out := make([]model.Client, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.toModel())
	}
	return out, nil
}

// Update replaces the client document.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, toClientEntity(c))
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrConflict
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// PushWorkCenter appends to the embedded list.
func (r *ClientRepo) PushWorkCenter(ctx context.Context, clientID string, wc model.WorkCenter) error {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "work_centers", Value: workCenterEntity(wc)}}}}
	return r.updateOne(ctx, clientID, update)
}

// PullWorkCenter removes every embedded entry with the id.
func (r *ClientRepo) PullWorkCenter(ctx context.Context, clientID, workCenterID string) error {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "work_centers", Value: bson.D{{Key: "id", Value: workCenterID}}}}}}
	return r.updateOne(ctx, clientID, update)
}

func (r *ClientRepo) updateOne(ctx context.Context, id string, update bson.D) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// EquipmentRepo implements EquipmentRepository.
type EquipmentRepo struct{ coll *mongo.Collection }

// Create inserts an equipment document.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	_, err := r.coll.InsertOne(ctx, toEquipmentEntity(e))
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrConflict
	}
	return err
}

// GetByID loads an equipment document.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	var ent equipmentEntity
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&ent); err != nil {
		return nil, notFound(err)
	}
	e := ent.toModel()
	return &e, nil
}

// Find returns the matching documents, newest first.
func (r *EquipmentRepo) Find(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, equipmentFilter(f), opts)
	if err != nil {
		return nil, err
	}
	var ents []equipmentEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, err
	}
	out := make([]model.Equipment, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.toModel())
	}
	return out, nil
}

// UpdateOne applies the set to one document.
func (r *EquipmentRepo) UpdateOne(ctx context.Context, id string, set model.FieldSet) error {
	update, err := setDocument(set)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateMany applies the set to every matching document.
func (r *EquipmentRepo) UpdateMany(ctx context.Context, f model.EquipmentFilter, set model.FieldSet) (int64, error) {
	update, err := setDocument(set)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.UpdateMany(ctx, equipmentFilter(f), update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DistinctOrderNumbers returns the sorted order numbers of matching documents.
func (r *EquipmentRepo) DistinctOrderNumbers(ctx context.Context, f model.EquipmentFilter) ([]string, error) {
	f.HasOrderNumber = true
	res := r.coll.Distinct(ctx, model.FieldPurchaseOrderNumber, equipmentFilter(f))
	if err := res.Err(); err != nil {
		return nil, err
	}
	var out []string
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	slices.Sort(out)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// OrderRepo implements PurchaseOrderRepository.
type OrderRepo struct{ coll *mongo.Collection }

// GetByNumber loads a ledger entry.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*model.PurchaseOrder, error) {
	var e purchaseOrderEntity
	if err := r.coll.FindOne(ctx, bson.D{{Key: "number", Value: number}}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	po := e.toModel()
	return &po, nil
}

// List returns every ledger entry, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "number", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var ents []purchaseOrderEntity
	if err := cur.All(ctx, &ents); err != nil {
		return nil, err
	}
	out := make([]model.PurchaseOrder, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.toModel())
	}
	return out, nil
}

// Merge upserts by number with $addToSet, so repeated ids are recorded once.
func (r *OrderRepo) Merge(ctx context.Context, po *model.PurchaseOrder) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "number", Value: po.Number}}, mergeUpdate(po),
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func mergeUpdate(po *model.PurchaseOrder) bson.D {
	ids := model.MergeIDs([]string{}, po.EquipmentIDs...)
	return bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "equipment_ids", Value: bson.D{{Key: "$each", Value: ids}}}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "_id", Value: po.ID}, {Key: "created_at", Value: po.CreatedAt.UTC()}}},
	}
}

// CatalogRepo implements CatalogRepository over three collections.
type CatalogRepo struct{ db *mongo.Database }

// ListManufacturers returns manufacturers in insertion order.
func (r *CatalogRepo) ListManufacturers(ctx context.Context) ([]model.Manufacturer, error) {
	var ents []manufacturerEntity
	if err := r.findAll(ctx, repository.CollectionManufacturers, bson.D{}, &ents); err != nil {
		return nil, err
	}
	out := make([]model.Manufacturer, 0, len(ents))
	for _, e := range ents {
		out = append(out, model.Manufacturer(e))
	}
	return out, nil
}

// CreateManufacturer inserts a manufacturer.
func (r *CatalogRepo) CreateManufacturer(ctx context.Context, m *model.Manufacturer) error {
	_, err := r.db.Collection(repository.CollectionManufacturers).InsertOne(ctx, manufacturerEntity(*m))
	return err
}

// ListModels returns models, optionally filtered by equipment type.
func (r *CatalogRepo) ListModels(ctx context.Context, equipmentType string) ([]model.EquipmentModel, error) {
	filter := bson.D{}
	if equipmentType != "" {
		filter = bson.D{{Key: "equipment_type", Value: equipmentType}}
	}
	var ents []equipmentModelEntity
	if err := r.findAll(ctx, repository.CollectionModels, filter, &ents); err != nil {
		return nil, err
	}
	out := make([]model.EquipmentModel, 0, len(ents))
	for _, e := range ents {
		out = append(out, model.EquipmentModel(e))
	}
	return out, nil
}

// CreateModel inserts an equipment model.
func (r *CatalogRepo) CreateModel(ctx context.Context, m *model.EquipmentModel) error {
	_, err := r.db.Collection(repository.CollectionModels).InsertOne(ctx, equipmentModelEntity(*m))
	return err
}

// ListFaultTypes returns fault types in insertion order.
func (r *CatalogRepo) ListFaultTypes(ctx context.Context) ([]model.FaultType, error) {
	var ents []faultTypeEntity
	if err := r.findAll(ctx, repository.CollectionFaultTypes, bson.D{}, &ents); err != nil {
		return nil, err
	}
	out := make([]model.FaultType, 0, len(ents))
	for _, e := range ents {
		out = append(out, model.FaultType(e))
	}
	return out, nil
}

// CreateFaultType inserts a fault type.
func (r *CatalogRepo) CreateFaultType(ctx context.Context, ft *model.FaultType) error {
	_, err := r.db.Collection(repository.CollectionFaultTypes).InsertOne(ctx, faultTypeEntity(*ft))
	return err
}

func (r *CatalogRepo) findAll(ctx context.Context, coll string, filter bson.D, out any) error {
	cur, err := r.db.Collection(coll).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
