/*
Package matching implements the quadratic funding engine and the matching fund
it pays from.

ComputeMatch is a pure function of the donor totals of a pool, the amount the
pool raised and the balance available in the matching fund. The fund itself is
a wallet owned by the FundAccount condition address, with its balance tracked
by the Fund record.
*/
package matching
