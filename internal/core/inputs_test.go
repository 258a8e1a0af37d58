package core

import (
	"testing"
	"time"
)

func TestClientInput(t *testing.T) {
	t.Run("defaults status to lead", func(t *testing.T) {
		in := ClientInput{Name: "Marco Rossi"}
		in.Normalize()
		if in.Status != ClientLead {
			t.Fatalf("expected lead, got %q", in.Status)
		}
		if err := in.Validate(); err != nil {
			t.Fatalf("valid input rejected: %v", err)
		}
	})

	t.Run("keeps explicit status", func(t *testing.T) {
		in := ClientInput{Name: "Marco Rossi", Status: ClientLoyal}
		in.Normalize()
		if in.Status != ClientLoyal {
			t.Fatalf("normalize must not override explicit status, got %q", in.Status)
		}
	})

	t.Run("rejects missing name", func(t *testing.T) {
		in := ClientInput{Name: "   "}
		in.Normalize()
		err := in.Validate()
		if !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects drifted status", func(t *testing.T) {
		in := ClientInput{Name: "x", Status: "inactive"}
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestProjectInputValidate(t *testing.T) {
	valid := ProjectInput{Name: "Matrimonio Bianchi", Type: ProjectWedding, Area: AreaStudio}
	valid.Normalize()
	if valid.Status != ProjectIdea {
		t.Fatalf("expected idea default, got %q", valid.Status)
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*ProjectInput)
	}{
		{"missing area", func(in *ProjectInput) { in.Area = "" }},
		{"bad area", func(in *ProjectInput) { in.Area = "finanze" }},
		{"bad type", func(in *ProjectInput) { in.Type = "corporate" }},
		{"negative budget", func(in *ProjectInput) { in.Budget = &Money{Cents: -1} }},
		{"margin over 100", func(in *ProjectInput) { m := 120.0; in.Margin = &m }},
		{"end before start", func(in *ProjectInput) {
			s, e := NewDate(2024, 5, 1), NewDate(2024, 4, 1)
			in.StartDate, in.EndDate = &s, &e
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mut(&in)
			if err := in.Validate(); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTaskInputDefaults(t *testing.T) {
	in := TaskInput{Title: "Selezione scatti"}
	in.Normalize()
	if in.Status != TaskTodo || in.Priority != PriorityMedium {
		t.Fatalf("unexpected defaults: status=%q priority=%q", in.Status, in.Priority)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestTransactionInputValidate(t *testing.T) {
	valid := TransactionInput{
		Type:     TransactionIncome,
		Amount:   Money{Cents: 50000},
		Category: "Fotografia",
		Date:     NewDate(2024, 1, 15),
		Area:     AreaStudio,
	}
	valid.Normalize()
	if valid.Status != TransactionCompleted {
		t.Fatalf("expected completed default, got %q", valid.Status)
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	t.Run("zero amount allowed", func(t *testing.T) {
		in := valid
		in.Amount = Money{}
		if err := in.Validate(); err != nil {
			t.Fatalf("zero amount should pass (non-negative rule): %v", err)
		}
	})
	t.Run("negative amount rejected", func(t *testing.T) {
		in := valid
		in.Amount = Money{Cents: -100}
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("missing date rejected", func(t *testing.T) {
		in := valid
		in.Date = Date{}
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestProposalInputNormalize(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("validity defaults to 30 days out", func(t *testing.T) {
		in := ProposalInput{ClientID: "c1", Title: "Servizio matrimonio", Amount: Money{Cents: 120000}}
		in.Normalize(now)
		if in.Status != ProposalDraft {
			t.Fatalf("expected draft default, got %q", in.Status)
		}
		want := NewDate(2024, 7, 1)
		if !in.ValidUntil.Equal(want.Time) {
			t.Fatalf("expected %v, got %v", want, in.ValidUntil)
		}
		if err := in.Validate(); err != nil {
			t.Fatalf("valid input rejected: %v", err)
		}
	})

	t.Run("explicit validity untouched", func(t *testing.T) {
		until := NewDate(2024, 12, 31)
		in := ProposalInput{ClientID: "c1", Title: "x", Amount: Money{Cents: 100}, ValidUntil: until}
		in.Normalize(now)
		if !in.ValidUntil.Equal(until.Time) {
			t.Fatalf("normalize overrode explicit valid_until: %v", in.ValidUntil)
		}
	})

	t.Run("requires client", func(t *testing.T) {
		in := ProposalInput{Title: "x", Amount: Money{Cents: 100}}
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("requires positive amount", func(t *testing.T) {
		in := ProposalInput{ClientID: "c1", Title: "x"}
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestPatchValidation(t *testing.T) {
	t.Run("client ok", func(t *testing.T) {
		p := Patch{"status": "loyal", "notes": "ottimo cliente"}
		if err := p.ValidateClient(); err != nil {
			t.Fatalf("valid patch rejected: %v", err)
		}
	})
	t.Run("unknown column", func(t *testing.T) {
		p := Patch{"surname": "Rossi"}
		if err := p.ValidateClient(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("store-assigned column", func(t *testing.T) {
		p := Patch{"id": "abc"}
		if err := p.ValidateClient(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("empty patch", func(t *testing.T) {
		p := Patch{}
		if err := p.ValidateClient(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
	t.Run("bad enum value", func(t *testing.T) {
		// "completed" was view-local drift in the old UI; only the
		// canonical task statuses pass the boundary.
		if err := (Patch{"status": "completed"}).ValidateTask(); !IsValidation(err) {
			t.Fatal("expected validation error for completed")
		}
		if err := (Patch{"status": "done"}).ValidateTask(); err != nil {
			t.Fatalf("valid patch rejected: %v", err)
		}
	})
	t.Run("transaction area", func(t *testing.T) {
		if err := (Patch{"area": "prizm"}).ValidateTransaction(); err != nil {
			t.Fatalf("valid patch rejected: %v", err)
		}
		if err := (Patch{"area": "finanze"}).ValidateTransaction(); !IsValidation(err) {
			t.Fatal("expected validation error for finanze")
		}
	})
}
