package trending

// EngagementScore ranks a photo by total interaction volume. Comments and
// ratings weigh equally.
func EngagementScore(commentCount, ratingCount int) int {
	if commentCount < 0 {
		commentCount = 0
	}
	if ratingCount < 0 {
		ratingCount = 0
	}
	return commentCount + ratingCount
}
