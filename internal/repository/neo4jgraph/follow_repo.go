// Package neo4jgraph keeps the social graph in Neo4j as
// (:User)-[:FOLLOWS]->(:User) relationships.
package neo4jgraph

import (
	"context"
	"fmt"

	"github.com/alankrit98/DevLog/internal/repository"
	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type FollowRepo struct {
	driver neo4j.DriverWithContext
}

var _ repository.FollowRepository = (*FollowRepo)(nil)

func NewFollowRepo(driver neo4j.DriverWithContext) *FollowRepo {
	return &FollowRepo{driver: driver}
}

// EnsureSchema creates the uniqueness constraint on User.id (which also
// indexes lookups by id).
func (r *FollowRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`, nil)
		return nil, err
	})
	return err
}

func (r *FollowRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MERGE (a:User {id: $followerId})
			MERGE (b:User {id: $followeeId})
			WITH a, b
			OPTIONAL MATCH (a)-[existing:FOLLOWS]->(b)
			WITH a, b, existing
			WHERE existing IS NULL
			CREATE (a)-[:FOLLOWS {created_at: datetime()}]->(b)
			RETURN count(*) AS created
		`, map[string]any{
			"followerId": followerID.String(),
			"followeeId": followeeID.String(),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("created")
		return n.(int64), nil
	})
	if err != nil {
		return fmt.Errorf("creating follows relation: %w", err)
	}
	if created.(int64) == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (:User {id: $followerId})-[r:FOLLOWS]->(:User {id: $followeeId})
			DELETE r
			RETURN count(r) AS deleted
		`, map[string]any{
			"followerId": followerID.String(),
			"followeeId": followeeID.String(),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("deleted")
		return n.(int64), nil
	})
	if err != nil {
		return fmt.Errorf("deleting follows relation: %w", err)
	}
	if deleted.(int64) == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			OPTIONAL MATCH (:User {id: $followerId})-[r:FOLLOWS]->(:User {id: $followeeId})
			RETURN r IS NOT NULL AS following
		`, map[string]any{
			"followerId": followerID.String(),
			"followeeId": followeeID.String(),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		following, _ := rec.Get("following")
		return following.(bool), nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		MATCH (:User {id: $userId})-[r:FOLLOWS]->(f:User)
		RETURN f.id AS id ORDER BY r.created_at
	`, userID)
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		MATCH (:User {id: $userId})<-[r:FOLLOWS]-(f:User)
		RETURN f.id AS id ORDER BY r.created_at
	`, userID)
}

func (r *FollowRepo) ListMutuals(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		MATCH (u:User {id: $userId})-[:FOLLOWS]->(f:User)-[:FOLLOWS]->(u)
		RETURN f.id AS id
	`, userID)
}

func (r *FollowRepo) listIDs(ctx context.Context, query string, userID uuid.UUID) ([]uuid.UUID, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID.String()})
		if err != nil {
			return nil, err
		}

		ids := []uuid.UUID{}
		for res.Next(ctx) {
			raw, _ := res.Record().Get("id")
			s, ok := raw.(string)
			if !ok {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("parsing user id %q: %w", s, err)
			}
			ids = append(ids, id)
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]uuid.UUID), nil
}
