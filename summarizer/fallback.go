package summarizer

import (
	"fmt"

	"yt-insight/models"
)

const (
	fallbackSentiment       = "Undeterminable due to lack of comment data"
	fallbackHealthAnalysis  = "No data available due to lack of comments"
	fallbackToneLevel       = "Unknown"
	fallbackAnalysisMessage = "The requested analysis of YouTube comments for the video \"%s\" cannot be performed as no valid comment data was provided. All comment entries were marked as 'undefined' for author, likes, and comment text."
)

// FallbackReport is returned instead of calling the model when there is nothing to analyze.
func FallbackReport(videoTitle string) *models.AnalysisReport {
	r := &models.AnalysisReport{
		WrittenAnalysis: fmt.Sprintf(fallbackAnalysisMessage, videoTitle),
		AtAGlanceSummary: models.AtAGlanceSummary{
			OverallSentiment: fallbackSentiment,
		},
		AudienceInsights: models.AudienceInsights{
			CommunityHealthScore:    0,
			CommunityHealthAnalysis: fallbackHealthAnalysis,
			LanguageToneProfile: models.LanguageToneProfile{
				FormalityLevel: fallbackToneLevel,
				TechnicalLevel: fallbackToneLevel,
				EmotionalTone:  fallbackToneLevel,
			},
		},
	}
	r.Normalize()
	return r
}
