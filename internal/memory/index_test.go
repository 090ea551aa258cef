package memory

import "testing"

func TestIndex_PutAndSearch(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer idx.Close()

	if err := idx.Put("auth.py", "handles user authentication and session tokens"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := idx.Put("db.py", "connects to postgres and runs migrations"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	results, err := idx.Search("authentication tokens", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one match")
	}
	if results[0].Path != "auth.py" {
		t.Fatalf("expected auth.py to rank first, got %q", results[0].Path)
	}
}

func TestIndex_PutReplacesPriorVersion(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer idx.Close()

	if err := idx.Put("notes.txt", "postgres"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := idx.Put("notes.txt", "mongodb"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	results, err := idx.Search("postgres", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, r := range results {
		if r.Path == "notes.txt" {
			t.Fatalf("expected notes.txt's old content to no longer match, got hit: %+v", r)
		}
	}
}

func TestIndex_SearchRespectsLimit(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	defer idx.Close()

	for i := 0; i < 5; i++ {
		if err := idx.Put(string(rune('a'+i))+".txt", "database migration notes"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	results, err := idx.Search("database", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
