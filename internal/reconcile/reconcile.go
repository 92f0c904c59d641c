package reconcile

import (
	"github.com/desertthunder/ytsync/internal/models"
)

// Diff is the full reconciliation of one remote list against one directory listing.
type Diff struct {
	Fetch  []models.RemoteItem // remote items with no local file, in remote order
	Keep   []models.RemoteItem // remote items already present locally
	Remove []models.LocalFile  // local files matching no remote title
}

// ItemsToFetch returns the remote items whose title key matches no local file, in remote order.
func ItemsToFetch(remote []models.RemoteItem, local []models.LocalFile) []models.RemoteItem {
	return Matcher{}.ItemsToFetch(remote, local)
}

// FilesToRemove returns the local files whose key matches none of the remote titles.
func FilesToRemove(local []models.LocalFile, remoteTitles []string) []models.LocalFile {
	return Matcher{}.FilesToRemove(local, remoteTitles)
}

// Plan computes both halves of the reconciliation at once.
func Plan(remote []models.RemoteItem, local []models.LocalFile) Diff {
	return Matcher{}.Plan(remote, local)
}

func (m Matcher) ItemsToFetch(remote []models.RemoteItem, local []models.LocalFile) []models.RemoteItem {
	return m.Plan(remote, local).Fetch
}

func (m Matcher) FilesToRemove(local []models.LocalFile, remoteTitles []string) []models.LocalFile {
	remoteKeys := make(map[string]struct{}, len(remoteTitles))
	for _, title := range remoteTitles {
		remoteKeys[m.Key(title)] = struct{}{}
	}

	var stale []models.LocalFile
	for _, f := range local {
		if _, found := remoteKeys[m.Normalize(f.Name)]; !found {
			stale = append(stale, f)
		}
	}
	return stale
}

func (m Matcher) Plan(remote []models.RemoteItem, local []models.LocalFile) Diff {
	localKeys := make(map[string]struct{}, len(local))
	for _, f := range local {
		localKeys[m.Normalize(f.Name)] = struct{}{}
	}

	var diff Diff
	for _, item := range remote {
		if _, found := localKeys[m.Key(item.Title)]; found {
			diff.Keep = append(diff.Keep, item)
		} else {
			diff.Fetch = append(diff.Fetch, item)
		}
	}
	diff.Remove = m.FilesToRemove(local, models.Titles(remote))
	return diff
}
