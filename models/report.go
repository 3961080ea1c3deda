package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a persisted analysis result. Created once and never updated.
// Collection: reports
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	VideoID    string             `bson:"video_id" json:"videoId"`
	VideoTitle string             `bson:"video_title" json:"videoTitle"`
	VideoURL   string             `bson:"video_url" json:"videoUrl"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	ReportData AnalysisReport     `bson:"report_data" json:"reportData"`
}

// AnalysisReport is the structured output of the generative model.
// Field names follow the response schema and must not be renamed.
type AnalysisReport struct {
	WrittenAnalysis         string                  `json:"writtenAnalysis" bson:"writtenAnalysis"`
	AtAGlanceSummary        AtAGlanceSummary        `json:"atAGlanceSummary" bson:"atAGlanceSummary"`
	KeyThemeDeepDive        []ThemeDeepDive         `json:"keyThemeDeepDive" bson:"keyThemeDeepDive"`
	ActionableOpportunities ActionableOpportunities `json:"actionableOpportunities" bson:"actionableOpportunities"`
	EmotionalAnalysis       EmotionalAnalysis       `json:"emotionalAnalysis" bson:"emotionalAnalysis"`
	QuestionIdentification  QuestionIdentification  `json:"questionIdentification" bson:"questionIdentification"`
	AudienceInsights        AudienceInsights        `json:"audienceInsights" bson:"audienceInsights"`
	ContextualAnalysis      ContextualAnalysis      `json:"contextualAnalysis" bson:"contextualAnalysis"`
	EnhancedActionPlan      EnhancedActionPlan      `json:"enhancedActionPlan" bson:"enhancedActionPlan"`
}

type AtAGlanceSummary struct {
	OverallSentiment  string             `json:"overallSentiment" bson:"overallSentiment"`
	TopThemes         []string           `json:"topThemes" bson:"topThemes"`
	MostLikedComments []MostLikedComment `json:"mostLikedComments" bson:"mostLikedComments"`
}

// MostLikedComment.LikeCount and PowerCommenter.Comments are NUMBER in the
// response schema and may arrive as 12.0.
type MostLikedComment struct {
	CommentText string  `json:"commentText" bson:"commentText"`
	LikeCount   float64 `json:"likeCount" bson:"likeCount"`
	Author      string  `json:"author" bson:"author"`
}

type ThemeDeepDive struct {
	ThemeTitle         string   `json:"themeTitle" bson:"themeTitle"`
	Explanation        string   `json:"explanation" bson:"explanation"`
	SupportingComments []string `json:"supportingComments" bson:"supportingComments"`
}

type ActionableOpportunities struct {
	ContentRequests         []string `json:"contentRequests" bson:"contentRequests"`
	MerchandiseIdeas        []string `json:"merchandiseIdeas" bson:"merchandiseIdeas"`
	EngagementOpportunities []string `json:"engagementOpportunities" bson:"engagementOpportunities"`
	BrandIdentity           []string `json:"brandIdentity" bson:"brandIdentity"`
}

type EmotionalAnalysis struct {
	EmotionBreakdown      []EmotionShare       `json:"emotionBreakdown" bson:"emotionBreakdown"`
	ConstructiveCriticism []CriticismItem      `json:"constructiveCriticism" bson:"constructiveCriticism"`
	TimestampHighlights   []TimestampHighlight `json:"timestampHighlights" bson:"timestampHighlights"`
}

type EmotionShare struct {
	Emotion         string   `json:"emotion" bson:"emotion"`
	Percentage      float64  `json:"percentage" bson:"percentage"`
	ExampleComments []string `json:"exampleComments" bson:"exampleComments"`
}

type CriticismItem struct {
	Comment    string `json:"comment" bson:"comment"`
	Type       string `json:"type" bson:"type"`
	Actionable bool   `json:"actionable" bson:"actionable"`
}

type TimestampHighlight struct {
	Timestamp string `json:"timestamp" bson:"timestamp"`
	Comment   string `json:"comment" bson:"comment"`
	Reaction  string `json:"reaction" bson:"reaction"`
}

type QuestionIdentification struct {
	Questions       []string        `json:"questions" bson:"questions"`
	TopicCategories []TopicCategory `json:"topicCategories" bson:"topicCategories"`
}

type TopicCategory struct {
	Topic     string   `json:"topic" bson:"topic"`
	Questions []string `json:"questions" bson:"questions"`
}

type AudienceInsights struct {
	ViewerPersonas          []ViewerPersona     `json:"viewerPersonas" bson:"viewerPersonas"`
	CommunityHealthScore    float64             `json:"communityHealthScore" bson:"communityHealthScore"`
	CommunityHealthAnalysis string              `json:"communityHealthAnalysis" bson:"communityHealthAnalysis"`
	LanguageToneProfile     LanguageToneProfile `json:"languageToneProfile" bson:"languageToneProfile"`
	PowerCommenters         []PowerCommenter    `json:"powerCommenters" bson:"powerCommenters"`
}

type ViewerPersona struct {
	PersonaName     string   `json:"personaName" bson:"personaName"`
	Description     string   `json:"description" bson:"description"`
	Characteristics []string `json:"characteristics" bson:"characteristics"`
	ExampleComments []string `json:"exampleComments" bson:"exampleComments"`
}

type LanguageToneProfile struct {
	FormalityLevel string   `json:"formalityLevel" bson:"formalityLevel"`
	TechnicalLevel string   `json:"technicalLevel" bson:"technicalLevel"`
	EmotionalTone  string   `json:"emotionalTone" bson:"emotionalTone"`
	CommonPhrases  []string `json:"commonPhrases" bson:"commonPhrases"`
}

type PowerCommenter struct {
	Name     string  `json:"name" bson:"name"`
	Comments float64 `json:"comments" bson:"comments"`
	Impact   string  `json:"impact" bson:"impact"`
}

type ContextualAnalysis struct {
	TitleFeedback        []string             `json:"titleFeedback" bson:"titleFeedback"`
	ThumbnailFeedback    []string             `json:"thumbnailFeedback" bson:"thumbnailFeedback"`
	ExpectationVsReality ExpectationVsReality `json:"expectationVsReality" bson:"expectationVsReality"`
	SEOSuggestions       []string             `json:"seoSuggestions" bson:"seoSuggestions"`
}

type ExpectationVsReality struct {
	Promised  []string `json:"promised" bson:"promised"`
	Delivered []string `json:"delivered" bson:"delivered"`
	Gaps      []string `json:"gaps" bson:"gaps"`
}

type EnhancedActionPlan struct {
	ContentIdeas               []ActionItem `json:"contentIdeas" bson:"contentIdeas"`
	CommunityEngagementTactics []ActionItem `json:"communityEngagementTactics" bson:"communityEngagementTactics"`
	VideoOptimizationTips      []ActionItem `json:"videoOptimizationTips" bson:"videoOptimizationTips"`
}

type ActionItem struct {
	Suggestion         string   `json:"suggestion" bson:"suggestion"`
	SupportingEvidence []string `json:"supportingEvidence" bson:"supportingEvidence"`
	Priority           string   `json:"priority" bson:"priority"`
}

const (
	MinCommunityHealthScore = 0
	MaxCommunityHealthScore = 10
)

// Normalize replaces missing arrays with empty ones and clamps the health score.
func (r *AnalysisReport) Normalize() {
	s := &r.AtAGlanceSummary
	s.TopThemes = nonNil(s.TopThemes)
	s.MostLikedComments = nonNil(s.MostLikedComments)

	r.KeyThemeDeepDive = nonNil(r.KeyThemeDeepDive)
	for i := range r.KeyThemeDeepDive {
		r.KeyThemeDeepDive[i].SupportingComments = nonNil(r.KeyThemeDeepDive[i].SupportingComments)
	}

	a := &r.ActionableOpportunities
	a.ContentRequests = nonNil(a.ContentRequests)
	a.MerchandiseIdeas = nonNil(a.MerchandiseIdeas)
	a.EngagementOpportunities = nonNil(a.EngagementOpportunities)
	a.BrandIdentity = nonNil(a.BrandIdentity)

	e := &r.EmotionalAnalysis
	e.EmotionBreakdown = nonNil(e.EmotionBreakdown)
	for i := range e.EmotionBreakdown {
		e.EmotionBreakdown[i].ExampleComments = nonNil(e.EmotionBreakdown[i].ExampleComments)
	}
	e.ConstructiveCriticism = nonNil(e.ConstructiveCriticism)
	e.TimestampHighlights = nonNil(e.TimestampHighlights)

	q := &r.QuestionIdentification
	q.Questions = nonNil(q.Questions)
	q.TopicCategories = nonNil(q.TopicCategories)
	for i := range q.TopicCategories {
		q.TopicCategories[i].Questions = nonNil(q.TopicCategories[i].Questions)
	}

	au := &r.AudienceInsights
	au.ViewerPersonas = nonNil(au.ViewerPersonas)
	for i := range au.ViewerPersonas {
		au.ViewerPersonas[i].Characteristics = nonNil(au.ViewerPersonas[i].Characteristics)
		au.ViewerPersonas[i].ExampleComments = nonNil(au.ViewerPersonas[i].ExampleComments)
	}
	au.LanguageToneProfile.CommonPhrases = nonNil(au.LanguageToneProfile.CommonPhrases)
	au.PowerCommenters = nonNil(au.PowerCommenters)
	switch {
	case au.CommunityHealthScore < MinCommunityHealthScore:
		au.CommunityHealthScore = MinCommunityHealthScore
	case au.CommunityHealthScore > MaxCommunityHealthScore:
		au.CommunityHealthScore = MaxCommunityHealthScore
	}

	c := &r.ContextualAnalysis
	c.TitleFeedback = nonNil(c.TitleFeedback)
	c.ThumbnailFeedback = nonNil(c.ThumbnailFeedback)
	c.ExpectationVsReality.Promised = nonNil(c.ExpectationVsReality.Promised)
	c.ExpectationVsReality.Delivered = nonNil(c.ExpectationVsReality.Delivered)
	c.ExpectationVsReality.Gaps = nonNil(c.ExpectationVsReality.Gaps)
	c.SEOSuggestions = nonNil(c.SEOSuggestions)

	p := &r.EnhancedActionPlan
	p.ContentIdeas = normalizeActionItems(p.ContentIdeas)
	p.CommunityEngagementTactics = normalizeActionItems(p.CommunityEngagementTactics)
	p.VideoOptimizationTips = normalizeActionItems(p.VideoOptimizationTips)
}

func normalizeActionItems(items []ActionItem) []ActionItem {
	items = nonNil(items)
	for i := range items {
		items[i].SupportingEvidence = nonNil(items[i].SupportingEvidence)
		items[i].Priority = NormalizePriority(items[i].Priority)
	}
	return items
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// SplitCriticism separates constructive criticism from the rest of the critical feedback.
func (r AnalysisReport) SplitCriticism() (constructive, other []CriticismItem) {
	constructive = []CriticismItem{}
	other = []CriticismItem{}
	for _, c := range r.EmotionalAnalysis.ConstructiveCriticism {
		if strings.EqualFold(strings.TrimSpace(c.Type), "constructive") {
			constructive = append(constructive, c)
		} else {
			other = append(other, c)
		}
	}
	return constructive, other
}

type HealthBand string

const (
	HealthBandHigh   HealthBand = "high"
	HealthBandMedium HealthBand = "medium"
	HealthBandLow    HealthBand = "low"
)

// HealthBand buckets the community health score: 8 and above is high, 5 and above medium.
func (r AnalysisReport) HealthBand() HealthBand {
	score := r.AudienceInsights.CommunityHealthScore
	switch {
	case score >= 8:
		return HealthBandHigh
	case score >= 5:
		return HealthBandMedium
	default:
		return HealthBandLow
	}
}

// NormalizePriority maps a free-form priority onto high, medium, low or unknown.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	case "low":
		return "low"
	default:
		return "unknown"
	}
}
