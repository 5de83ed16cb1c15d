package steps

import (
	"fmt"
	"strings"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
)

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func entityBlock(c types.Candidate) string {
	return "Entity Information:\n" +
		"- Name: " + c.Name + "\n" +
		"- Description: " + orNA(c.Description) + "\n" +
		"- Types: " + orNA(strings.Join(c.Types, ", ")) + "\n" +
		"- Detailed Description: " + orNA(c.DetailedDescription)
}

func promptSelectIntegrations(c types.Candidate, catalog string) (system string, user string) {
	system = `You route knowledge-graph entities to external metadata sources.
Return ONLY a JSON array. No prose.`
	user = "Given this entity from a knowledge graph, determine which external data sources would be relevant for enriching the information.\n\n" +
		entityBlock(c) + "\n\n" +
		"Available integrations:\n" + catalog + "\n\n" +
		`CRITICAL: consider the entity's types and description to avoid confusing different concepts with the same name. For example:
- "Halloween" the holiday is NOT the same as "Halloween" the movie
- "It" the pronoun is NOT the same as "It" the Stephen King novel or movie
- "The Thing" the concept is NOT the same as "The Thing" the movie

Rules for matching:
1. ONLY suggest tmdb if the entity types include "Movie" or "Film", or the description explicitly says it is a film
2. ONLY suggest googleBooks if the entity types include "Book", or the description says it is a novel or book
3. If the entity is a holiday, celebration, concept or other non-media entity, DO NOT suggest media integrations
4. Only propose an integration whose "Relevant for" types match the entity's actual type

Only include integrations with a strong match (confidence above 0.7).
For each one give the integration key, a confidence between 0.0 and 1.0, reasoning that references the entity's type or description, and hints that help find the right record (articleTitle, searchQuery, year, author, artist, or a native id such as tmdbId).

Example:
[{"integrationKey":"tmdb","confidence":0.95,"reasoning":"Types include Movie and the description says 2012 film","hints":{"year":"2012","searchQuery":"The Cabin in the Woods"}}]`
	return system, user
}

func promptScaryAnalysis(c types.Candidate, extract string) (system string, user string) {
	system = `You write objective scariness analyses for a horror wiki.
Return ONLY valid JSON matching the requested structure.`
	var dims strings.Builder
	for i, s := range types.StandardDimensionSlugs() {
		if i > 0 {
			dims.WriteString(",\n")
		}
		fmt.Fprintf(&dims, `    {"dimensionId": %q, "score": 1-10, "reasoning": "Explanation of the score for %s"}`, s, strings.ToLower(types.StandardDimensionNames[i]))
	}
	user = "Analyze the following entity for its scary or frightening qualities.\n\n" + entityBlock(c) + "\n"
	if strings.TrimSpace(extract) != "" {
		user += "\nAdditional context (encyclopedia extract):\n" + extract + "\n"
	}
	user += "\nRespond with JSON of this structure:\n{\n" +
		`  "whyScary": "A detailed 2-3 paragraph explanation of why this entity is scary, covering psychological, visual or thematic elements.",` + "\n" +
		"  \"dimensionScores\": [\n" + dims.String() + "\n  ]\n}\n\n" +
		`Guidelines:
- Scores are 1-10 where 1 is "not scary at all" and 10 is "extremely scary"
- If the entity is not traditionally scary, note any unsettling aspects but do not inflate the scores
- Be objective and give specific reasoning for each dimension`
	return system, user
}

const pickExtractLength = 300

func promptPickArticle(c types.Candidate, titles, extracts []string) (system string, user string) {
	system = `You match an entity to the encyclopedia article that describes it.
Answer with the number of the best article only.`
	var b strings.Builder
	for i := range titles {
		ex := []rune(extracts[i])
		if len(ex) > pickExtractLength {
			ex = ex[:pickExtractLength]
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, titles[i], strings.ReplaceAll(string(ex), "\n", " "))
	}
	user = entityBlock(c) + "\n\nCandidate articles:\n" + b.String() + "\nWhich article number best matches the entity?"
	return system, user
}
