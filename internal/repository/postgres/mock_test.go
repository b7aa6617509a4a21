package postgres

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// stmt turns a literal fragment of a statement into a matcher pattern.
func stmt(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

// emptyList matches a non-nil slice with no elements, which encodes to
// a jsonb [] rather than null.
type emptyList struct{}

func (emptyList) Match(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && !rv.IsNil() && rv.Len() == 0
}

func ptr[T any](v T) *T { return &v }
