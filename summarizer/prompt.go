package summarizer

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"yt-insight/models"
)

var stripMarkup = bluemonday.StrictPolicy()

// sanitize removes any markup from comment text while keeping plain characters readable.
func sanitize(s string) string {
	return html.UnescapeString(stripMarkup.Sanitize(s))
}

// usableComments keeps comments that have an author and some text.
// Missing like counts are tolerated here and rendered as 0.
func usableComments(comments []models.VideoComment) []models.VideoComment {
	out := make([]models.VideoComment, 0, len(comments))
	for _, c := range comments {
		if c.AuthorDisplayName != "" && (c.TextDisplay != "" || c.TextOriginal != "") {
			out = append(out, c)
		}
	}
	return out
}

// FormatComments renders comments as Author/Likes/Comment blocks separated by "---".
func FormatComments(comments []models.VideoComment) string {
	blocks := make([]string, 0, len(comments))
	for _, c := range comments {
		blocks = append(blocks, fmt.Sprintf("Author: %s\nLikes: %d\nComment: %s\n---",
			sanitize(c.AuthorDisplayName), c.Likes(), sanitize(c.Text())))
	}
	return strings.Join(blocks, "\n")
}

// BuildPrompt embeds the video context and formatted comments into the analysis instructions.
func BuildPrompt(title, description, formattedComments string) string {
	return fmt.Sprintf(promptTemplate, title, description, formattedComments)
}

const promptTemplate = `
You are a YouTube channel analyst. Your task is to analyze the comments for a video and generate a structured JSON report.

**Video Context:**
- **Title:** "%s"
- **Description:** "%s"

**Comments to Analyze:**
%s

**Instructions:**
Based on the video context and the comments provided, generate a JSON object that adheres to the provided schema. The analysis should be insightful and helpful for the YouTube creator.

- **First, write a detailed 'writtenAnalysis'**: This should be a 2-3 paragraph narrative summary explaining the overall findings. It should touch on the general sentiment, the main topics of discussion, and the key opportunities you discovered.
- For 'overallSentiment', provide a percentage breakdown (e.g., "95%% Positive / 5%% Neutral").
- For 'topThemes', identify the 5 most discussed topics.
- For 'mostLikedComments', list the top 3 comments with the most likes.
- For 'keyThemeDeepDive', create 2-3 detailed sections on the most important themes.
- For 'actionableOpportunities', find specific, actionable suggestions from the comments. If a category has no items, return an empty array.

**Enhanced Analysis Instructions:**

- For 'emotionalAnalysis':
  - Classify comments by emotions (Joy, Humor, Surprise, Confusion, Frustration, Appreciation)
  - Differentiate between constructive criticism and non-constructive trolling:
    - For 'constructiveCriticism', include at least 2-3 examples of both constructive and non-constructive feedback
    - Constructive criticism should have 'type' set to 'constructive' and include actionable feedback
    - Non-constructive criticism should have 'type' set to 'non-constructive' and include examples of trolling or unhelpful comments
    - Set 'actionable' to true for feedback that the creator can act upon
  - Identify comments that reference specific timestamps and explain why viewers highlighted them

- For 'questionIdentification':
  - Extract all substantive questions asked in the comments
  - Categorize questions by topic

- For 'audienceInsights':
  - Generate 2-3 viewer personas based on comment patterns
  - Provide a community health score (1-10) and analysis
  - Analyze the language and tone profile of the audience
  - Identify power commenters who drive engagement

- For 'contextualAnalysis':
  - Analyze feedback about the video's title and thumbnail
  - Compare the video's promised content vs. what viewers perceived
  - Suggest keywords for SEO based on comment content

- For 'enhancedActionPlan':
  - Categorize actionable suggestions into content ideas, community engagement tactics, and video optimization tips
  - For each suggestion, provide 2-3 supporting comment quotes as evidence
  - Assign priority levels to each suggestion (high, medium, low)
`
