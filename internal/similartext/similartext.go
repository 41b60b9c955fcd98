// Copyright 2025 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package similartext finds the closest match for a string in a collection
// based on the Levenshtein distance.
package similartext

// DistanceForStrings returns the edit distance between source and target.
// It has a runtime proportional to len(source) * len(target) and memory use
// proportional to len(target). Substitutions cost 2, insertions and
// deletions cost 1.
func DistanceForStrings(source, target []rune) int {
	height := len(source) + 1
	width := len(target) + 1
	matrix := make([][]int, 2)

	for i := 0; i < 2; i++ {
		matrix[i] = make([]int, width)
		matrix[i][0] = i
	}
	for j := 1; j < width; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < height; i++ {
		cur := matrix[i%2]
		prev := matrix[(i-1)%2]
		cur[0] = i
		for j := 1; j < width; j++ {
			delCost := prev[j] + 1
			matchSubCost := prev[j-1]
			if source[i-1] != target[j-1] {
				matchSubCost += 2
			}
			insCost := cur[j-1] + 1
			cur[j] = min(delCost, matchSubCost, insCost)
		}
	}

	return matrix[(height-1)%2][width-1]
}

// Closest returns the candidate with the smallest edit distance to target,
// so long as that distance stays under the target's own length. The bound
// keeps unrelated candidates out: a candidate only qualifies when well over
// half its runes already line up with the target. The boolean is false when
// no candidate qualifies.
func Closest(candidates []string, target string) (string, bool) {
	targetRunes := []rune(target)
	if len(targetRunes) == 0 {
		return "", false
	}

	bound := len(targetRunes)
	best := ""
	bestDist := -1
	for _, candidate := range candidates {
		candidateRunes := []rune(candidate)

		// Every rune of length difference costs at least one edit, so a
		// candidate outside the bound in length alone can be skipped
		// without computing the distance.
		diff := len(candidateRunes) - len(targetRunes)
		if diff < 0 {
			diff = -diff
		}
		if diff >= bound {
			continue
		}

		dist := DistanceForStrings(candidateRunes, targetRunes)
		if dist >= bound {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}

	return best, bestDist != -1
}
