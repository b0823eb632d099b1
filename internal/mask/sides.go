package mask

// CombineSides merges the masks of both sides of a frame into one comb
// mask. A pixel is labeled from side B wherever B is non-background, except
// where side A already shows comb. Detection misses on one side are more
// common than false comb, so the union is the better estimate.
func CombineSides(a, b *Mask, mirrorB bool) (*Mask, error) {
	if err := SameShape(a, b); err != nil {
		return nil, err
	}
	aligned := b
	if mirrorB {
		aligned = Mirror(b)
	}
	out := a.Clone()
	for i, v := range aligned.Labels {
		if v != Background && a.Labels[i] != Comb {
			out.Labels[i] = v
		}
	}
	return out, nil
}
