
// Package aggregate folds per-page analysis results into a domain
// report. Folding is order-independent: pages can arrive in any order
// and produce the same report.
package aggregate

import (
	"math"
	"sort"

	"seolens-go-analyzer/internal/models"
)

const (
	topN             = 10
	promotionRank    = 5
	promotionMinPage = 2
)

type termGroup struct {
	term       string
	scoreSum   float64
	pages      int
	topPages   int
	bucketVote map[models.Bucket]int
}

// Build merges per-page results into a DomainReport. Failed pages are
// counted in the totals but contribute nothing to distributions or
// keywords; degraded pages contribute what they have.
func Build(domain string, results []*models.PageResult) models.DomainReport {
	summary := models.DomainSummary{
		TotalURLs:  len(results),
		ByType:     map[models.PageType]int{},
		ByAudience: map[string]int{},
		ByIntent:   map[models.Intent]int{},
	}

	groups := map[string]*termGroup{}
	for _, page := range results {
		if page.Failed() {
			summary.Failed++
			continue
		}
		summary.Processed++
		if page.Degraded {
			summary.Degraded++
		}
		summary.ByType[page.Type]++
		for _, a := range page.Audience {
			summary.ByAudience[a]++
		}
		summary.ByIntent[page.Intent]++

		for rank, kw := range page.Scored {
			g, ok := groups[kw.Term]
			if !ok {
				g = &termGroup{term: kw.Term, bucketVote: map[models.Bucket]int{}}
				groups[kw.Term] = g
			}
			g.scoreSum += kw.Score
			g.pages++
			g.bucketVote[kw.Bucket]++
			if rank < promotionRank {
				g.topPages++
			}
		}
	}

	buckets := map[models.Bucket][]models.KeywordScore{}
	for _, g := range groups {
		bucket := g.finalBucket()
		buckets[bucket] = append(buckets[bucket], models.KeywordScore{
			Term:  g.term,
			Score: g.aggregateScore(),
		})
	}
	summary.TopClient = top(buckets[models.BucketClient], topN)
	summary.TopProduct = top(buckets[models.BucketProductOrPost], topN)
	summary.TopGeneralSEO = top(buckets[models.BucketGeneralSEO], topN)

	return models.DomainReport{
		Domain:  domain,
		Summary: summary,
		URLs:    results,
	}
}

// finalBucket promotes recurring top terms to the client bucket and
// otherwise keeps the majority per-page assignment.
func (g *termGroup) finalBucket() models.Bucket {
	if g.topPages >= promotionMinPage {
		return models.BucketClient
	}
	best, bestVotes := models.BucketGeneralSEO, 0
	for _, b := range []models.Bucket{models.BucketClient, models.BucketProductOrPost, models.BucketGeneralSEO} {
		if v := g.bucketVote[b]; v > bestVotes {
			best, bestVotes = b, v
		}
	}
	return best
}

// aggregateScore is the cross-page average, nudged up for terms that
// recur on several pages, capped at 1.
func (g *termGroup) aggregateScore() float64 {
	avg := g.scoreSum / float64(g.pages)
	score := avg * (1 + 0.15*math.Log1p(float64(g.pages-1)))
	if score > 1 {
		score = 1
	}
	return score
}

func top(list []models.KeywordScore, n int) []models.KeywordScore {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Term < list[j].Term
	})
	if len(list) > n {
		list = list[:n]
	}
	if list == nil {
		list = []models.KeywordScore{}
	}
	return list
}
