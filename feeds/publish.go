package feeds

// PublishInfo contains what subscribers need to find a feed
type PublishInfo struct {
	Id          string
	Title       string
	Description string
	Path        string
	URL         string
}

// GetPublishInfo lists the public URLs of every feed, in definition order
func GetPublishInfo(feeds FeedList, baseURL string) []PublishInfo {
	infos := make([]PublishInfo, len(feeds))
	for i, feed := range feeds {
		infos[i] = PublishInfo{
			Id:          feed.Id,
			Title:       feed.Title,
			Description: feed.Description,
			Path:        feed.Path(),
			URL:         feed.URL(baseURL),
		}
	}
	return infos
}
