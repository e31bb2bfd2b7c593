package feeds

import (
	"vndbrss/config"
)

// InitializeFeeds builds the runtime feeds from their TOML definitions.
// The custom list filters are appended to every feed's filter.
func InitializeFeeds(cfg *config.TomlConfig, custom CustomFilters) FeedList {
	feeds := make(FeedList, 0, len(cfg.Feeds))

	for _, feedCfg := range cfg.Feeds {
		feeds = append(feeds, &Feed{
			Id:             feedCfg.Id,
			Title:          feedCfg.Title,
			Description:    feedCfg.Description,
			Label:          feedCfg.Label,
			PreferAltTitle: feedCfg.PreferAltTitle,
			Filter:         createFilter(feedCfg, custom).Build(),
		})
	}

	return feeds
}

func createFilter(feedCfg config.TomlFeed, custom CustomFilters) *FilterBuilder {
	b := NewFilterBuilder()

	b.AddFilter(&LanguageFilter{
		Languages:        feedCfg.Languages,
		ExcludeLanguages: feedCfg.ExcludeLanguages,
	})
	b.AddFilter(&OriginalLanguageFilter{Language: feedCfg.OriginalLanguage})
	if feedCfg.Freeware {
		b.AddFilter(&FreewareFilter{})
	}
	b.AddFilter(&OfficialFilter{Official: feedCfg.Official})
	b.AddFilter(&ReleasedFilter{})

	b.AddFilter(&ListFilter{Field: "medium", Op: "=", Logical: "or", Values: custom.IncludeMedia})
	b.AddFilter(&ListFilter{Field: "dtag", Op: "!=", Logical: "and", Values: custom.ExcludeTags, OnVN: true})
	if feedCfg.ExcludeVersions {
		b.AddFilter(&ListFilter{Field: "rtype", Op: "!=", Logical: "and", Values: custom.ExcludeVersions})
	}
	b.AddFilter(&ListFilter{Field: "platform", Op: "=", Logical: "or", Values: custom.IncludePlatforms})

	return b
}
