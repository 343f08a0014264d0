package log

import "testing"

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryBrowse, "BROWSE"},
		{CategoryResolve, "RESOLVE"},
		{CategoryDescribe, "DESCRIBE"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestCategoryValues(t *testing.T) {
	// Verify explicit values for wire stability
	if CategoryBrowse != 0 {
		t.Errorf("CategoryBrowse = %d, want 0", CategoryBrowse)
	}
	if CategoryResolve != 1 {
		t.Errorf("CategoryResolve = %d, want 1", CategoryResolve)
	}
	if CategoryDescribe != 2 {
		t.Errorf("CategoryDescribe = %d, want 2", CategoryDescribe)
	}
	if CategoryState != 3 {
		t.Errorf("CategoryState = %d, want 3", CategoryState)
	}
	if CategoryError != 4 {
		t.Errorf("CategoryError = %d, want 4", CategoryError)
	}
}
