package constants

const (
	// Preference scoring weights:
	// - feedback entries add ScoreHelpful or ScoreNotHelpful per entry
	// - the last RecentCompletionWindow log entries add ScoreCompleted or ScoreSkipped
	// - each preferred-category match adds ScorePreferredCategory
	ScoreHelpful           = 2.0
	ScoreNotHelpful        = -1.0
	ScoreCompleted         = 1.0
	ScoreSkipped           = -0.5
	ScorePreferredCategory = 0.5
	RecentCompletionWindow = 10

	// Number of derived preferred categories kept on the user
	PreferredCategoryLimit = 3

	// Number of habits returned per tier by recommendations
	RecommendationsPerTier = 3
)

func init() {
	// Runtime validation: helpful feedback must outweigh a single completion
	if ScoreHelpful <= ScoreCompleted {
		panic("ScoreHelpful must be greater than ScoreCompleted")
	}
}
