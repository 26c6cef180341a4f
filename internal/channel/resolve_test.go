package channel

import (
	"testing"

	"github.com/tairasoul/ccsync/internal/project"
)

func testProject() *project.Project {
	return &project.Project{
		RootDir: "testdata",
		Items: []project.Item{
			{ChannelName: "B", Type: project.Library},
			{ChannelName: "A", Type: project.Library, RequiredChannels: []string{"B"}},
		},
	}
}

func TestResolveOrdersRequiredChannelsFirst(t *testing.T) {
	proj := testProject()
	items := Resolve([]string{"A"}, proj)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ChannelName != "B" || items[1].ChannelName != "A" {
		t.Fatalf("expected [B A], got [%s %s]", items[0].ChannelName, items[1].ChannelName)
	}
}

func TestResolveSkipsUnknownChannels(t *testing.T) {
	proj := testProject()
	items := Resolve([]string{"nonexistent", "B"}, proj)
	if len(items) != 1 || items[0].ChannelName != "B" {
		t.Fatalf("expected only [B], got %v", items)
	}
}

func TestResolveBreaksCycles(t *testing.T) {
	proj := &project.Project{
		Items: []project.Item{
			{ChannelName: "X", RequiredChannels: []string{"Y"}},
			{ChannelName: "Y", RequiredChannels: []string{"X"}},
		},
	}
	items := Resolve([]string{"X"}, proj)
	if len(items) != 2 {
		t.Fatalf("expected 2 items despite cycle, got %d", len(items))
	}
}

func TestResolveDeduplicatesAcrossRequests(t *testing.T) {
	proj := testProject()
	items := Resolve([]string{"A", "B"}, proj)
	if len(items) != 2 {
		t.Fatalf("expected dedup to 2 items, got %d", len(items))
	}
}
