package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRoleStoreList(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectQuery(`SELECT name FROM roles ORDER BY created_at, name`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Morador").AddRow("Secretário"))

	got, err := NewRoleStore(db).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"Morador", "Secretário"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

// TestRoleStoreAdd reports whether the insert created a row.
func TestRoleStoreAdd(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectExec(`INSERT INTO roles \(name\) VALUES \(\$1\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("Conselheiro").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO roles`).
		WithArgs("Conselheiro").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewRoleStore(db)
	added, err := s.Add(context.Background(), "Conselheiro")
	if err != nil || !added {
		t.Errorf("first Add = %v, %v; want true", added, err)
	}
	added, err = s.Add(context.Background(), "Conselheiro")
	if err != nil || added {
		t.Errorf("second Add = %v, %v; want false", added, err)
	}
}
