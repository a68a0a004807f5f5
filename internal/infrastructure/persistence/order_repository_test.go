package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/tests/testutil"
	"gorm.io/gorm"
)

const lastOrderNumberQuery = `SELECT order_number FROM "orders" WHERE order_number LIKE \$1 .*ORDER BY LENGTH\(order_number\) DESC,order_number DESC.*LIMIT .*`

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	ctx := context.Background()
	prefix := fmt.Sprintf("TO-%d-", time.Now().Year())

	tests := []struct {
		name string
		last string
		want string
	}{
		{"first of the year", "", prefix + "00001"},
		{"next in sequence", prefix + "00041", prefix + "00042"},
		{"grows past five digits", prefix + "99999", prefix + "100000"},
		{"keeps counting after rollover", prefix + "100000", prefix + "100001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testutil.NewMockDB(t)
			defer m.Close()

			q := m.Mock.ExpectQuery(lastOrderNumberQuery).WithArgs(prefix+"%", 1)
			if tt.last == "" {
				q.WillReturnRows(sqlmock.NewRows([]string{"order_number"}))
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow(tt.last))
			}

			got, err := NewGormOrderRepository(m.DB).GenerateOrderNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			m.ExpectationsWereMet(t)
		})
	}

	t.Run("query failure is returned", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		defer m.Close()

		boom := errors.New("connection reset")
		m.Mock.ExpectQuery(lastOrderNumberQuery).WillReturnError(boom)

		_, err := NewGormOrderRepository(m.DB).GenerateOrderNumber(ctx)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
		m.ExpectationsWereMet(t)
	})
}
