// Package driverstore keeps the live driver state in Redis. Each driver is a
// hash under driver:{id} with its active orders in the set driver:{id}:orders;
// the sets drivers:available and drivers:offering index drivers by status.
package driverstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

const (
	availableKey = "drivers:available"
	offeringKey  = "drivers:offering"

	// Optimistic transactions give up after this many WATCH failures.
	maxAttempts = 5
)

const (
	fieldCompany   = "company_id"
	fieldStatus    = "status"
	fieldLat       = "lat"
	fieldLng       = "lng"
	fieldIdleSince = "idle_since"
	fieldOffering  = "offering_order_id"
	fieldUpdatedAt = "updated_at"
)

var _ ports.DriverStateStore = (*Store)(nil)

type reader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

// Store implements ports.DriverStateStore. Status changes run in WATCH
// transactions so two dispatchers cannot reserve the same driver.
type Store struct {
	redis *redis.Client
}

// NewStore returns an error if client is nil.
func NewStore(client *redis.Client) (*Store, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	return &Store{redis: client}, nil
}

// Get returns ErrObjectNotFound for an unknown driver.
func (s *Store) Get(ctx context.Context, driverID kernel.UUID) (*driver.State, error) {
	return load(ctx, s.redis, driverID)
}

// Save writes the state and its index entries in one transaction.
func (s *Store) Save(ctx context.Context, state *driver.State) error {
	if state == nil {
		return errs.NewValueIsRequiredError("driver state")
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		write(ctx, pipe, state)
		return nil
	})
	return err
}

// ListAvailable returns the drivers in the available index.
func (s *Store) ListAvailable(ctx context.Context) ([]*driver.State, error) {
	return s.listMembers(ctx, availableKey)
}

// ListOffering returns the drivers holding an offer.
func (s *Store) ListOffering(ctx context.Context) ([]*driver.State, error) {
	return s.listMembers(ctx, offeringKey)
}

// Reserve fails with ports.ErrDriverUnavailable when the driver is unknown or
// not available at the moment the transaction runs.
func (s *Store) Reserve(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error {
	return s.update(ctx, driverID, func(state *driver.State) error {
		if state == nil {
			return ports.ErrDriverUnavailable
		}
		if err := state.ReserveFor(orderID, now); err != nil {
			return fmt.Errorf("%w: %w", ports.ErrDriverUnavailable, err)
		}
		return nil
	})
}

// Release reports false when the driver no longer holds orderID.
func (s *Store) Release(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) (bool, error) {
	released := false
	err := s.update(ctx, driverID, func(state *driver.State) error {
		if state == nil {
			return errSkip
		}
		if released = state.Release(orderID, now); !released {
			return errSkip
		}
		return nil
	})
	return released, err
}

// Assign moves the driver to BUSY for orderID.
func (s *Store) Assign(ctx context.Context, driverID, orderID kernel.UUID, now time.Time) error {
	return s.update(ctx, driverID, func(state *driver.State) error {
		if state == nil {
			return errs.NewObjectNotFoundError("driver", driverID)
		}
		state.Assign(orderID, now)
		return nil
	})
}

// errSkip ends an update without writing.
var errSkip = errors.New("skip")

// update runs mutate against the current state inside a WATCH transaction and
// writes the result. mutate receives nil when the driver has no record.
func (s *Store) update(ctx context.Context, driverID kernel.UUID, mutate func(*driver.State) error) error {
	keys := []string{stateKey(driverID), ordersKey(driverID)}

	txf := func(tx *redis.Tx) error {
		state, err := load(ctx, tx, driverID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			state, err = nil, nil
		}
		if err != nil {
			return err
		}
		if err = mutate(state); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(ctx, pipe, state)
			return nil
		})
		return err
	}

	for range maxAttempts {
		err := s.redis.Watch(ctx, txf, keys...)
		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, errSkip):
			return nil
		default:
			return err
		}
	}
	return errs.NewConcurrencyConflictError("driver state", maxAttempts, redis.TxFailedErr)
}

func (s *Store) listMembers(ctx context.Context, setKey string) ([]*driver.State, error) {
	members, err := s.redis.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}

	states := make([]*driver.State, 0, len(members))
	for _, member := range members {
		id, err := kernel.UUIDFromString(member)
		if err != nil {
			return nil, err
		}
		state, err := load(ctx, s.redis, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			// Index entry outlived its hash.
			continue
		}
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

func load(ctx context.Context, r reader, driverID kernel.UUID) (*driver.State, error) {
	fields, err := r.HGetAll(ctx, stateKey(driverID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errs.NewObjectNotFoundError("driver", driverID)
	}
	orders, err := r.SMembers(ctx, ordersKey(driverID)).Result()
	if err != nil {
		return nil, err
	}
	return decode(driverID, fields, orders)
}

func write(ctx context.Context, pipe redis.Pipeliner, state *driver.State) {
	id := state.DriverID().String()
	key := stateKey(state.DriverID())

	pipe.HSet(ctx, key, encode(state))

	orders := ordersKey(state.DriverID())
	pipe.Del(ctx, orders)
	if active := state.ActiveOrders(); len(active) > 0 {
		members := make([]interface{}, len(active))
		for i, orderID := range active {
			members[i] = orderID.String()
		}
		pipe.SAdd(ctx, orders, members...)
	}

	switch state.Status() {
	case driver.Available:
		pipe.SAdd(ctx, availableKey, id)
		pipe.SRem(ctx, offeringKey, id)
	case driver.Offering:
		pipe.SAdd(ctx, offeringKey, id)
		pipe.SRem(ctx, availableKey, id)
	default:
		pipe.SRem(ctx, availableKey, id)
		pipe.SRem(ctx, offeringKey, id)
	}
}

func encode(state *driver.State) map[string]interface{} {
	fields := map[string]interface{}{
		fieldCompany:   "",
		fieldStatus:    string(state.Status()),
		fieldLat:       "",
		fieldLng:       "",
		fieldIdleSince: formatTime(state.IdleSince()),
		fieldOffering:  "",
		fieldUpdatedAt: formatTime(state.UpdatedAt()),
	}
	if c := state.CompanyID(); c != nil {
		fields[fieldCompany] = c.String()
	}
	if loc := state.Location(); loc != nil {
		fields[fieldLat] = strconv.FormatFloat(loc.Lat(), 'f', -1, 64)
		fields[fieldLng] = strconv.FormatFloat(loc.Lng(), 'f', -1, 64)
	}
	if o := state.OfferingOrderID(); o != nil {
		fields[fieldOffering] = o.String()
	}
	return fields
}

func decode(driverID kernel.UUID, fields map[string]string, orders []string) (*driver.State, error) {
	status, err := driver.ParseStatus(fields[fieldStatus])
	if err != nil {
		return nil, err
	}
	companyID, err := parseOptionalUUID(fields[fieldCompany])
	if err != nil {
		return nil, err
	}
	offering, err := parseOptionalUUID(fields[fieldOffering])
	if err != nil {
		return nil, err
	}
	location, err := parseLocation(fields[fieldLat], fields[fieldLng])
	if err != nil {
		return nil, err
	}
	idleSince, err := parseTime(fields[fieldIdleSince])
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields[fieldUpdatedAt])
	if err != nil {
		return nil, err
	}

	active := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		id, err := kernel.UUIDFromString(o)
		if err != nil {
			return nil, err
		}
		active = append(active, id)
	}

	return driver.RestoreState(driverID, companyID, status, location, idleSince, offering, active, updatedAt)
}

func parseOptionalUUID(s string) (*kernel.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseLocation(lat, lng string) (*kernel.Location, error) {
	if lat == "" || lng == "" {
		return nil, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("lat", err)
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("lng", err)
	}
	loc, err := kernel.NewLocation(la, lo)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func stateKey(id kernel.UUID) string  { return "driver:" + id.String() }
func ordersKey(id kernel.UUID) string { return "driver:" + id.String() + ":orders" }
