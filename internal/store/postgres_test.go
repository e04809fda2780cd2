package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshotRow struct {
	version int32
	doc     []byte
}

// fakeDB answers the handful of statements PGStore issues.
type fakeDB struct {
	rows map[string][]snapshotRow
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.Contains(sql, "CREATE TABLE") {
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	}
	name := args[1].(string)
	db.rows[name] = append(db.rows[name], snapshotRow{version: args[2].(int32), doc: args[3].([]byte)})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	rows := db.rows[args[0].(string)]
	switch {
	case strings.Contains(sql, "MAX(version)"):
		return fakeRow{scan: func(dest ...any) error {
			var v int32
			for _, r := range rows {
				v = max(v, r.version)
			}
			*dest[0].(*int32) = v
			return nil
		}}
	default:
		return fakeRow{scan: func(dest ...any) error {
			if len(rows) == 0 {
				return pgx.ErrNoRows
			}
			latest := rows[0]
			for _, r := range rows {
				if r.version > latest.version {
					latest = r
				}
			}
			*dest[0].(*[]byte) = latest.doc
			return nil
		}}
	}
}

func TestPGStoreVersionsSnapshots(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string][]snapshotRow{}}
	s := NewPGStore(db)
	require.NoError(t, s.EnsureSchema(ctx))

	_, err := s.Load(ctx, "stage")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "stage", testDoc()))
	doc := testDoc()
	doc.Shapes = doc.Shapes[:1]
	require.NoError(t, s.Save(ctx, "stage", doc))

	require.Len(t, db.rows["stage"], 2)
	assert.Equal(t, int32(2), db.rows["stage"][1].version)

	got, err := s.Load(ctx, "stage")
	require.NoError(t, err)
	assert.Len(t, got.Shapes, 1)
	assert.Equal(t, "a", got.Shapes[0].Name)
}

func TestPGStoreRejectsEmptyName(t *testing.T) {
	s := NewPGStore(&fakeDB{rows: map[string][]snapshotRow{}})
	assert.ErrorIs(t, s.Save(context.Background(), "", testDoc()), ErrInvalidName)
}

func TestPGStoreNormalizesNames(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string][]snapshotRow{}}
	s := NewPGStore(db)

	require.NoError(t, s.Save(ctx, "stage.xml", testDoc()))
	assert.Len(t, db.rows["stage"], 1)

	_, err := s.Load(ctx, "stage")
	require.NoError(t, err)
	_, err = s.Load(ctx, "../stage")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestPGStoreRejectsInvalidSnapshots(t *testing.T) {
	tests := map[string]string{
		"future":       `{"name":"stage","version":99,"shapes":[]}`,
		"missing type": `{"name":"stage","version":1,"shapes":[{"name":"x"}]}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			db := &fakeDB{rows: map[string][]snapshotRow{
				"stage": {{version: 1, doc: []byte(raw)}},
			}}
			_, err := NewPGStore(db).Load(context.Background(), "stage")
			assert.ErrorContains(t, err, "decode snapshot")
		})
	}
}
