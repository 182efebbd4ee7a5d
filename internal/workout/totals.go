package workout

// ComputeTotals sums the logged sets: set count, reps, and weight x reps volume.
func ComputeTotals(setsByExercise [][]LoggedSet) Totals {
	var totals Totals
	for _, sets := range setsByExercise {
		for _, s := range sets {
			totals.Sets++
			totals.Reps += s.Reps
			totals.VolumeKg += s.WeightKg * float64(s.Reps)
		}
	}
	return totals
}
