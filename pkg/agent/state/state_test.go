package state

import "testing"

func TestRouteValid(t *testing.T) {
	for _, r := range []Route{RouteVectorstore, RouteWebSearch, RouteDirectLLM} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Route{"", "sql", "VECTORSTORE ", "direct"} {
		if r.Valid() {
			t.Errorf("%q should not be valid", r)
		}
	}
}

func TestRouteTakenDerivation(t *testing.T) {
	tests := []struct {
		name string
		st   PipelineState
		want Route
	}{
		{
			name: "any web document wins",
			st: PipelineState{Documents: []RetrievedDocument{
				{SourceID: "a", Source: SourceLocal},
				{SourceID: "b", Source: SourceWeb},
			}},
			want: RouteWebSearch,
		},
		{
			name: "only local documents",
			st: PipelineState{Documents: []RetrievedDocument{
				{SourceID: "a", Source: SourceLocal},
			}},
			want: RouteVectorstore,
		},
		{
			name: "no documents, web search attempted",
			st:   PipelineState{UseWebSearch: true},
			want: RouteWebSearch,
		},
		{
			name: "local documents but web search ran empty",
			st: PipelineState{
				UseWebSearch: true,
				Documents: []RetrievedDocument{
					{SourceID: "a", Source: SourceLocal},
				},
			},
			want: RouteWebSearch,
		},
		{
			name: "no documents at all",
			st:   PipelineState{},
			want: RouteDirectLLM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.RouteTaken(); got != tt.want {
				t.Errorf("RouteTaken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsedWebSearch(t *testing.T) {
	st := PipelineState{Documents: []RetrievedDocument{{Source: SourceLocal}}}
	if st.UsedWebSearch() {
		t.Error("UsedWebSearch() = true before web search ran")
	}
	st.UseWebSearch = true
	if !st.UsedWebSearch() {
		t.Error("UsedWebSearch() = false after web search ran")
	}
	// The flag holds even when the provider returned nothing
	st.Documents = nil
	if !st.UsedWebSearch() {
		t.Error("UsedWebSearch() = false for a web run with zero results")
	}
}
