package storage

// FileStorage bundles the three file-backed stores under one directory.
// Each store owns its own file and mutex, so goal and salary writes never
// contend with expense rewrites.
type FileStorage struct {
	*ExpenseFileStore
	*GoalFileStore
	*SalaryFileStore
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{
		ExpenseFileStore: NewExpenseFileStore(dir),
		GoalFileStore:    NewGoalFileStore(dir),
		SalaryFileStore:  NewSalaryFileStore(dir),
	}
}
