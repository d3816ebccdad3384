package matching

import (
	"math"
	"testing"

	"github.com/iov-one/fundpool/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIsqrt(t *testing.T) {
	Convey("Integer square root", t, func() {
		Convey("of small values", func() {
			want := map[int64]int64{
				0: 0, 1: 1, 2: 1, 3: 1, 4: 2, 8: 2, 9: 3, 15: 3, 16: 4,
				99: 9, 100: 10, 101: 10, 1000000: 1000, 999999: 999,
			}
			for a, x := range want {
				So(Isqrt(a), ShouldEqual, x)
			}
		})

		Convey("is the floor of the real root", func() {
			for _, a := range []int64{7, 48, 50, 12345, 987654321, 1 << 40, (1 << 40) + 1} {
				x := Isqrt(a)
				So(x*x, ShouldBeLessThanOrEqualTo, a)
				So((x+1)*(x+1), ShouldBeGreaterThan, a)
			}
		})

		Convey("does not overflow for the greatest value", func() {
			So(Isqrt(math.MaxInt64), ShouldEqual, int64(3037000499))
		})

		Convey("of a negative value is zero", func() {
			So(Isqrt(-9), ShouldEqual, 0)
		})
	})
}

func TestComputeMatch(t *testing.T) {
	Convey("Quadratic funding payout", t, func() {
		Convey("many small donors are matched", func() {
			// (10+10+10+10)^2 - 400 = 1200
			payout, err := ComputeMatch([]int64{100, 100, 100, 100}, 400, 10000)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 1200)
		})

		Convey("two equal donors", func() {
			// (10+10)^2 - 200 = 200
			payout, err := ComputeMatch([]int64{100, 100}, 200, 10000)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 200)
		})

		Convey("a single donor is never matched", func() {
			payout, err := ComputeMatch([]int64{400}, 400, 10000)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 0)
		})

		Convey("payout is capped by the matching balance", func() {
			payout, err := ComputeMatch([]int64{100, 100, 100, 100}, 400, 500)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 500)
		})

		Convey("negative quadratic amount is clamped to zero", func() {
			// Floor of square roots makes the sum lower than raised.
			payout, err := ComputeMatch([]int64{3}, 3, 10000)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 0)
		})

		Convey("no donors", func() {
			payout, err := ComputeMatch(nil, 0, 10000)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 0)
		})

		Convey("empty matching balance", func() {
			payout, err := ComputeMatch([]int64{100, 100}, 200, 0)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, 0)
		})

		Convey("large totals do not overflow", func() {
			totals := []int64{math.MaxInt64, math.MaxInt64, math.MaxInt64}
			payout, err := ComputeMatch(totals, math.MaxInt64, math.MaxInt64)
			So(err, ShouldBeNil)
			So(payout, ShouldEqual, int64(math.MaxInt64))
		})

		Convey("is deterministic", func() {
			a, err := ComputeMatch([]int64{17, 230, 9, 4000}, 4256, 100000)
			So(err, ShouldBeNil)
			b, err := ComputeMatch([]int64{17, 230, 9, 4000}, 4256, 100000)
			So(err, ShouldBeNil)
			So(a, ShouldEqual, b)
		})

		Convey("negative inputs are rejected", func() {
			_, err := ComputeMatch([]int64{-1}, 0, 0)
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
			_, err = ComputeMatch(nil, -1, 0)
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
			_, err = ComputeMatch(nil, 0, -1)
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
		})
	})
}
