package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph"
)

// edgeNamespace seeds the name-based UUIDs that identify edges in Neo4j, so
// importing the same edge twice updates one relationship.
var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("http://conceptnet.io/a/"))

const defaultNeo4jBatch = 500

const mergeEdges = `
	UNWIND $rows AS row
	MERGE (s:Concept {uri: row.start})
	MERGE (e:Concept {uri: row.end})
	MERGE (s)-[r:ASSERTS {id: row.id}]->(e)
	SET r.uri = row.uri,
	    r.rel = row.rel,
	    r.dataset = row.dataset,
	    r.contributor = row.contributor,
	    r.process = row.process,
	    r.activity = row.activity,
	    r.license = row.license,
	    r.weight = row.weight,
	    r.surface_text = row.surface_text,
	    r.updated_at = datetime()
`

// Neo4jConfig holds connection settings for a Neo4jSink.
type Neo4jConfig struct {
	URI       string
	Username  string
	Password  string
	Database  string
	BatchSize int
}

// Neo4jSink writes edges into Neo4j as (:Concept)-[:ASSERTS]->(:Concept)
// relationships, in batched write transactions.
type Neo4jSink struct {
	driver   neo4j.Driver
	database string
	batch    int
	pending  []map[string]interface{}
}

// NewNeo4jSink connects to Neo4j and verifies the connection.
func NewNeo4jSink(cfg Neo4jConfig) (*Neo4jSink, error) {
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriver(cfg.URI, auth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Neo4j driver")
	}
	if err := driver.VerifyConnectivity(); err != nil {
		driver.Close()
		return nil, errors.Wrapf(err, "failed to reach Neo4j at %s", cfg.URI)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultNeo4jBatch
	}
	return &Neo4jSink{driver: driver, database: cfg.Database, batch: batch}, nil
}

func neo4jRow(e graph.Edge) map[string]interface{} {
	uri := e.URI()
	return map[string]interface{}{
		"id":           uuid.NewSHA1(edgeNamespace, []byte(uri+"|"+e.Dataset+"|"+e.Source.Contributor+"|"+e.Source.Process+"|"+e.Source.Activity)).String(),
		"uri":          uri,
		"rel":          e.Rel.URI(),
		"start":        e.Start.String(),
		"end":          e.End.String(),
		"dataset":      e.Dataset,
		"contributor":  e.Source.Contributor,
		"process":      e.Source.Process,
		"activity":     e.Source.Activity,
		"license":      e.License,
		"weight":       e.Weight,
		"surface_text": e.SurfaceText,
	}
}

func (s *Neo4jSink) Write(ctx context.Context, e graph.Edge) error {
	s.pending = append(s.pending, neo4jRow(e))
	if len(s.pending) >= s.batch {
		return s.flush(ctx)
	}
	return nil
}

func (s *Neo4jSink) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	session := s.driver.NewSession(neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close()

	rows := s.pending
	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		_, err := tx.Run(mergeEdges, map[string]interface{}{"rows": rows})
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, "write %d edges to Neo4j", len(rows))
	}
	s.pending = s.pending[:0]
	return nil
}

// Close writes any buffered edges and closes the driver.
func (s *Neo4jSink) Close() error {
	err := s.flush(context.Background())
	if cerr := s.driver.Close(); err == nil {
		err = cerr
	}
	return err
}

// Abort drops buffered edges and closes the driver. Batches already
// committed stay in the database.
func (s *Neo4jSink) Abort() error {
	s.pending = nil
	return s.driver.Close()
}
