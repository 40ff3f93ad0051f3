package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doaddy/backend/internal/domain/partner"
	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByIDForOrg(t *testing.T) {
	t.Run("finds customer within organization", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		orgID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "org_id", "name", "email", "phone", "active", "version"}).
			AddRow(customerID, orgID, "Mwamba Hardware", "info@mwamba.co.zm", "+260971234567", true, 1)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE org_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByIDForOrg(context.Background(), orgID, customerID)

		assert.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, orgID, customer.OrgID)
		assert.Equal(t, "Mwamba Hardware", customer.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE org_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByIDForOrg(context.Background(), orgID, customerID)

		assert.Nil(t, customer)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("customer in another organization is not visible", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		otherOrg := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE org_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(otherOrg, customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByIDForOrg(context.Background(), otherOrg, customerID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Save(t *testing.T) {
	t.Run("saves customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		customer, err := partner.NewCustomer(orgID, "Mwamba Hardware", "", "+260971234567")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "customers" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), customer)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_DeleteForOrg(t *testing.T) {
	t.Run("deletes customer within organization", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, customerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForOrg(context.Background(), orgID, customerID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "customers" WHERE org_id = \$1 AND id = \$2`).
			WithArgs(orgID, customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForOrg(context.Background(), orgID, customerID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_CountForOrg(t *testing.T) {
	t.Run("counts customers for organization", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE org_id = \$1`).
			WithArgs(orgID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountForOrg(context.Background(), orgID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies active filter", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE org_id = \$1 AND active = \$2`).
			WithArgs(orgID, true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountForOrg(context.Background(), orgID, shared.Filter{
			Filters: map[string]interface{}{"active": true},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	var _ partner.CustomerRepository = repo
}
