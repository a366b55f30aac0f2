package itineraryrepo

import (
	"context"
	"errors"
	"fmt"

	"multistop/internal/adapters/out/postgres/dberr"
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItineraryRepository implements ports.ItineraryRepository using GORM.
type GormItineraryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormItineraryRepository creates a new GORM itinerary repository.
func NewGormItineraryRepository(db *gorm.DB, tracker aggregateTracker) *GormItineraryRepository {
	return &GormItineraryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Load reads all rows of the order. An order without rows yields an empty
// graph.
func (r *GormItineraryRepository) Load(ctx context.Context, orderID kernel.UUID) (*itinerary.Graph, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	id := orderID.Bytes()

	var (
		steps  []StepDTO
		stops  []StopDTO
		acts   []ActionDTO
		proofs []ProofDTO
		items  []TransitItemDTO
	)
	for _, q := range []struct {
		table string
		dest  any
	}{
		{"steps", &steps},
		{"stops", &stops},
		{"actions", &acts},
		{"action_proofs", &proofs},
		{"transit_items", &items},
	} {
		if err := db.Where("order_id = ?", id).Find(q.dest).Error; err != nil {
			return nil, fmt.Errorf("load %s of order %s: %w", q.table, orderID, err)
		}
	}

	proofsByAction := make(map[uuid.UUID][]ProofDTO, len(acts))
	for _, p := range proofs {
		proofsByAction[p.ActionID] = append(proofsByAction[p.ActionID], p)
	}

	nodes := make([]itinerary.Node, 0, len(steps)+len(stops)+len(acts)+len(items))
	for _, dto := range steps {
		n, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	for _, dto := range stops {
		n, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	for _, dto := range acts {
		n, err := dto.toDomain(proofsByAction[dto.ID])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	for _, dto := range items {
		n, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	return itinerary.NewGraph(orderID, nodes...)
}

// Save applies the graph's change set: deletions children first, then
// insertions parents first, then updates. A second shadow of the same
// original fails on the original_id index and surfaces as a concurrency
// conflict.
func (r *GormItineraryRepository) Save(ctx context.Context, g *itinerary.Graph) error {
	changes := g.Changes()
	if changes.IsEmpty() {
		return nil
	}
	db := r.db.WithContext(ctx)

	for _, n := range changes.Deleted {
		if err := r.delete(db, n); err != nil {
			return dberr.Translate(n.Kind().String()+" "+n.ID().String(), err)
		}
	}
	for _, n := range changes.Inserted {
		if err := r.write(db, n, false); err != nil {
			return dberr.Translate(n.Kind().String()+" "+n.ID().String(), err)
		}
	}
	for _, n := range changes.Updated {
		if err := r.write(db, n, true); err != nil {
			return dberr.Translate(n.Kind().String()+" "+n.ID().String(), err)
		}
	}

	r.tracker.TrackAggregate(g.OrderID(), g)
	return nil
}

// OwnerOf returns the order a row belongs to, or ErrObjectNotFound.
func (r *GormItineraryRepository) OwnerOf(ctx context.Context, kind itinerary.Kind, id kernel.UUID) (kernel.UUID, error) {
	if err := id.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	table, err := tableOf(kind)
	if err != nil {
		return kernel.UUID{}, err
	}

	var owner struct{ OrderID uuid.UUID }
	err = r.db.WithContext(ctx).Table(table).Select("order_id").Where("id = ?", id.Bytes()).Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kernel.UUID{}, errs.NewObjectNotFoundError(kind.String(), id.String())
	}
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.FromGoogleUUID(owner.OrderID), nil
}

func (r *GormItineraryRepository) write(db *gorm.DB, n itinerary.Node, update bool) error {
	save := db.Create
	if update {
		save = db.Save
	}
	switch v := n.(type) {
	case *itinerary.Step:
		dto := stepFromDomain(v)
		return save(&dto).Error
	case *itinerary.Stop:
		dto := stopFromDomain(v)
		return save(&dto).Error
	case *itinerary.TransitItem:
		dto := transitItemFromDomain(v)
		return save(&dto).Error
	case *itinerary.Action:
		dto, proofs := actionFromDomain(v)
		if err := save(&dto).Error; err != nil {
			return err
		}
		if update {
			if err := db.Where("action_id = ?", dto.ID).Delete(&ProofDTO{}).Error; err != nil {
				return err
			}
		}
		if len(proofs) == 0 {
			return nil
		}
		return db.Create(&proofs).Error
	default:
		return fmt.Errorf("unsupported itinerary row %T", n)
	}
}

// delete removes a row and the rows it owns: proofs of an action. The
// address of a stop lives in the stop row.
func (r *GormItineraryRepository) delete(db *gorm.DB, n itinerary.Node) error {
	id := n.ID().Bytes()
	switch n.Kind() {
	case itinerary.StepKind:
		return db.Delete(&StepDTO{}, "id = ?", id).Error
	case itinerary.StopKind:
		return db.Delete(&StopDTO{}, "id = ?", id).Error
	case itinerary.TransitItemKind:
		return db.Delete(&TransitItemDTO{}, "id = ?", id).Error
	case itinerary.ActionKind:
		if err := db.Delete(&ProofDTO{}, "action_id = ?", id).Error; err != nil {
			return err
		}
		return db.Delete(&ActionDTO{}, "id = ?", id).Error
	default:
		return fmt.Errorf("unsupported itinerary row %T", n)
	}
}

func tableOf(kind itinerary.Kind) (string, error) {
	switch kind {
	case itinerary.StepKind:
		return StepDTO{}.TableName(), nil
	case itinerary.StopKind:
		return StopDTO{}.TableName(), nil
	case itinerary.ActionKind:
		return ActionDTO{}.TableName(), nil
	case itinerary.TransitItemKind:
		return TransitItemDTO{}.TableName(), nil
	default:
		return "", errs.NewValueIsInvalidError("kind")
	}
}
