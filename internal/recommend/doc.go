// Package recommend implements the recommendation engine: four scoring
// strategies over a static knowledge base, aggregation into a ranked list,
// a collaborative boost from similar users and rule-based content
// suggestions for entities the user already follows.
package recommend
