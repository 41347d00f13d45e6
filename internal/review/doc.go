// Package review applies operator rulings to match decisions held back by
// grading. Approvals settle picks as wins, rejections as losses, and both
// are reversible until the next grading pass settles them differently.
package review
