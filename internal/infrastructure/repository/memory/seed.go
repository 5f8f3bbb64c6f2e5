package memory

import "github.com/rdelcourt/guardpost/internal/domain/member"

// SeedMembers returns a roster large enough for a full-week draw: sixteen
// drawable members plus one excluded by rank and one who left the guild.
func SeedMembers() []member.Member {
	return []member.Member{
		{Handle: "Aldric", Rank: "R3"},
		{Handle: "Brasier", Rank: "R2"},
		{Handle: "Cendrelune", Rank: "R4"},
		{Handle: "Dorn", Rank: "R2"},
		{Handle: "Eclipsia", Rank: "R3"},
		{Handle: "Fenril", Rank: "R5"},
		{Handle: "Grimaud", Rank: "R2"},
		{Handle: "Helva", Rank: "R3"},
		{Handle: "Isilme", Rank: "R4"},
		{Handle: "Jorvik", Rank: "R2"},
		{Handle: "Kaelyss", Rank: "R3"},
		{Handle: "Lothar", Rank: "R5"},
		{Handle: "Morrigane", Rank: "R2"},
		{Handle: "Nyxelis", Rank: "R3"},
		{Handle: "Orvald", Rank: "R4"},
		{Handle: "Pyrrha", Rank: "R2"},
		{Handle: "Quillon", Rank: "R1"},
		{Handle: "Ravenne", Rank: "R3", ExitReason: "left the guild"},
	}
}
