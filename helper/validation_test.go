package helper

import "testing"

type testValidationConfig struct {
	DbConnectionName string `errorTxt:"database connection name" mandatory:"yes"`
	TableName        string `errorTxt:"table name" mandatory:"yes"`
	Optional         string `errorTxt:"optional thing"`
}

func TestValidateStructIsPopulated(t *testing.T) {
	// Test 1 - fully populated struct produces no error.
	cfg := testValidationConfig{DbConnectionName: "db", TableName: "listings"}
	if err := ValidateStructIsPopulated(&cfg); err != nil {
		t.Fatalf("expected nil error; got %v", err)
	}
	// Test 2 - missing mandatory fields are reported using their errorTxt tags.
	cfg = testValidationConfig{}
	err := ValidateStructIsPopulated(&cfg)
	if err == nil {
		t.Fatal("expected an error; got nil")
	}
	expected := "please supply values for database connection name, table name"
	if err.Error() != expected {
		t.Fatalf("expected %q; got %q", expected, err.Error())
	}
	// Test 3 - non-mandatory fields may be empty.
	cfg = testValidationConfig{DbConnectionName: "db", TableName: "listings", Optional: ""}
	if err := ValidateStructIsPopulated(&cfg); err != nil {
		t.Fatalf("expected nil error; got %v", err)
	}
}
