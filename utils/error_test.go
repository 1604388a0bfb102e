package utils_test

import (
	"errors"
	"fmt"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
)

func TestValidationError(t *testing.T) {
	err := utils.NewValidationError("invalid qty for invoice %s", "INV-100")
	if !utils.IsValidationError(err) {
		t.Fatal("IsValidationError = false")
	}
	if err.Error() != "invalid qty for invoice INV-100" {
		t.Fatalf("message = %q", err.Error())
	}
	if utils.IsNotFoundError(err) {
		t.Fatal("validation error misclassified as not-found")
	}

	wrapped := fmt.Errorf("import failed: %w", err)
	if !utils.IsValidationError(wrapped) {
		t.Fatal("wrapped validation error not recognized")
	}
}

func TestNotFoundError(t *testing.T) {
	err := utils.NewNotFoundError("product", "No Such Product")
	if !utils.IsNotFoundError(err) {
		t.Fatal("IsNotFoundError = false")
	}
	if err.Error() != "product not found: No Such Product" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("driver: bad connection")
	err := utils.NewStoreError("customers.GetCustomerIdByName", cause)
	if !errors.Is(err, cause) {
		t.Fatal("store error must unwrap to its cause")
	}
	var se *utils.StoreError
	if !errors.As(err, &se) || se.Op != "customers.GetCustomerIdByName" {
		t.Fatalf("unexpected store error: %v", err)
	}
}

func TestStoreErrorNilCause(t *testing.T) {
	if err := utils.NewStoreError("op", nil); err != nil {
		t.Fatalf("nil cause must yield nil, got %v", err)
	}
}
